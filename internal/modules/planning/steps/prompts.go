package steps

import (
	"fmt"
	"strconv"
	"strings"
)

func restLabel(days []string) string {
	if len(days) == 0 {
		return "없음"
	}
	return strings.Join(days, ", ")
}

func hoursLabel(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}

type applyPromptInput struct {
	CourseTitle   string
	TotalLectures int
	TotalDuration string
	Skill         string
	Level         string
	Curriculum    string
	StartDate     string
	HoursPerDay   float64
	RestDays      []string
}

func applyPrompt(in applyPromptInput) string {
	rest := restLabel(in.RestDays)
	hours := hoursLabel(in.HoursPerDay)
	return fmt.Sprintf(`[시스템 지시] 학습 계획 생성 API입니다. 반드시 JSON만 출력하세요.

선택된 강좌 정보를 바탕으로 최적의 학습 계획을 만들어주세요.

📚 강좌 정보:
- 강좌명: %[1]s
- 총 강의 수: %[2]d개
- 총 학습 시간: %[3]s
- 학습 분야: %[4]s
- 학습자 수준: %[5]s

📋 커리큘럼:
%[6]s

⏰ 학습 조건:
- 시작 날짜: %[7]s
- 하루 학습 시간: %[8]s시간
- 쉬는 요일: %[9]s

🎯 계획 생성 규칙 (매우 중요!):
1. 학습자 수준(%[5]s)에 맞게 난이도 조절
2. ⭐ 하루에 반드시 2~5개의 다양한 태스크를 포함할 것! (절대 1개만 넣지 말 것)
3. ⭐ 매일 다양한 유형의 학습 활동을 포함:
   - 📹 강의 시청: 메인 강의 내용
   - 💻 실습/코딩 연습: 배운 내용을 직접 실습 (코드 작성, 예제 풀이 등)
   - 📝 복습/정리: 이전 내용 복습, 노트 정리
   - 🎬 유튜브 추천: 해당 주제 관련 유튜브 영상 시청 (필요시)
   - 📖 추가 학습: 공식 문서, 블로그 글 읽기 (심화 학습)
   - 🎯 미니 프로젝트/퀴즈: 작은 과제나 퀴즈로 이해도 확인
4. 하루 %[8]s시간에 맞게 시간 분배 (각 태스크에 적절한 시간 배분)
5. 관련 강의들은 같은 날에 연속 배치
6. 최대 4주(28일) 내에 완료되도록 설계
7. 쉬는 요일(%[9]s)은 제외
8. task_type 필드로 태스크 유형 명시: "lecture", "practice", "review", "youtube", "reading", "quiz"

반드시 아래 JSON 형식으로만 응답:
`+"```json"+`
{
  "plan_name": "%[1]s 학습 계획",
  "total_duration": "N주",
  "daily_schedule": [
    {
      "date": "YYYY-MM-DD",
      "tasks": [
        {
          "id": "uuid형식",
          "title": "강의 제목 또는 학습 내용",
          "description": "해당 학습의 목표와 내용 설명",
          "duration": "예상 학습 시간 (예: 30분, 1시간)",
          "completed": false,
          "section": "섹션명",
          "task_type": "lecture/practice/review/youtube/reading/quiz 중 하나"
        }
      ]
    }
  ]
}
`+"```"+`

⚠️ 중요: 반드시 하루에 2~5개의 태스크를 포함해야 합니다! 1개만 있으면 안 됩니다!

지금 바로 JSON을 출력하세요:`,
		in.CourseTitle, in.TotalLectures, in.TotalDuration, in.Skill, in.Level,
		in.Curriculum, in.StartDate, hours, rest)
}

type generatePromptInput struct {
	Skill       string
	Level       string
	StartDate   string
	HoursPerDay float64
	RestDays    []string
}

func generatePrompt(in generatePromptInput) string {
	rest := restLabel(in.RestDays)
	hours := hoursLabel(in.HoursPerDay)
	return fmt.Sprintf(`학습 계획을 만들어주세요.

조건:
- 스킬: %[1]s
- 하루 공부 시간: %[2]s시간
- 시작 날짜: %[3]s
- 쉬는 요일: %[4]s
- 학습자 수준: %[5]s

반드시 아래 JSON 형식으로만 응답해주세요:
`+"```json"+`
{
  "plan_name": "%[1]s 학습 계획",
  "total_duration": "4주",
  "daily_schedule": [
    {
      "date": "YYYY-MM-DD",
      "tasks": [
        {
          "id": "uuid",
          "title": "학습 내용",
          "description": "상세 설명",
          "duration": "1시간",
          "completed": false,
          "task_type": "lecture/practice/review/youtube/reading/quiz"
        }
      ]
    }
  ]
}
`+"```"+`

%[3]s부터 4주간의 일정을 만들되, 쉬는 요일(%[4]s)은 제외해주세요.
하루에 2~5개의 구체적인 학습 태스크를 배정해주세요.
`, in.Skill, hours, in.StartDate, rest, in.Level)
}

func recommendPrompt(skill, level string) string {
	return fmt.Sprintf(`[시스템 지시] 당신은 교육 콘텐츠 추천 API입니다. 반드시 JSON만 출력하세요. 질문, 확인, 설명 없이 오직 JSON 데이터만 반환합니다.

'%[1]s' 분야 %[2]s 수준 학습자를 위한 강좌/도서 6개를 추천하세요.

검색 플랫폼: 인프런, 유데미(Udemy), 부스트코스, 코세라(Coursera), 교보문고, 예스24

⚠️ 절대 규칙:
1. JSON 외의 텍스트 출력 금지 (질문, 설명, 확인 요청 금지)
2. 찾을 수 없다는 응답 금지 - 반드시 6개 추천
3. example.com URL 사용 금지
4. 숫자에 쉼표 금지 (1234 형식)

📚 커리큘럼 필수 요구사항 (매우 중요!):
- 각 강좌의 전체 목차/커리큘럼을 상세히 포함
- 섹션명과 각 섹션별 강의 목록 모두 포함
- 각 강의가 무엇을 다루는지 간단한 설명 포함
- 최소 15개 이상의 강의 항목 포함 (실제 강좌 구조 반영)

필수 JSON 형식:
`+"```json"+`
{
  "recommendations": [
    {
      "id": "unique_id_1",
      "title": "강좌/도서 제목",
      "provider": "플랫폼명",
      "instructor": "강사/저자명",
      "type": "course",
      "weeks": 4,
      "free": false,
      "rating": 4.5,
      "students": "1234명",
      "total_lectures": 25,
      "total_duration": "총 15시간 30분",
      "summary": "상세 설명 2-3문장",
      "reason": "%[2]s 학습자가 %[1]s 기초를 다지기에 적합합니다",
      "curriculum": [
        {
          "section": "섹션 1: 입문",
          "lectures": [
            {"title": "1강: 오리엔테이션", "duration": "10분", "description": "강좌 소개 및 학습 방법 안내"},
            {"title": "2강: 개발환경 설정", "duration": "25분", "description": "필요한 도구 설치 및 환경 구성"}
          ]
        }
      ],
      "link": "https://www.inflearn.com/course/강좌주소",
      "price": "55000원",
      "level_detail": "%[2]s 수준"
    }
  ]
}
`+"```"+`

지금 바로 JSON을 출력하세요:`, skill, level)
}

func relatedPrompt(topic string) string {
	return fmt.Sprintf(`📖 **'%s' 주제에 대한 보충 학습 자료를 찾아주세요.**

🚨 **절대 금지 사항**
- example.com, example.org 등 EXAMPLE이 들어간 모든 URL 절대 사용 금지
- 존재하지 않는 가상의 자료 생성 금지
- 반드시 실제 접근 가능한 URL만 제공

📚 **검색 대상**:
- 유튜브 강의 영상 (한국어 또는 영어)
- 기술 블로그 (velog, tistory, medium 등)
- 공식 문서
- 온라인 강좌

⚠️ **필수 출력 형식** (JSON):
`+"```json"+`
{
  "materials": [
    {"title": "자료 제목", "type": "유튜브", "url": "https://...", "description": "이 자료가 학습에 도움이 되는 이유"},
    {"title": "자료 제목", "type": "블로그", "url": "https://...", "description": "이 자료가 학습에 도움이 되는 이유"}
  ]
}
`+"```"+`

📌 **요청사항**:
- 총 3-4개의 학습 자료 추천
- 다양한 타입의 자료 포함 (유튜브, 블로그, 공식문서 등)
- 반드시 한국어 또는 영어로 된 실제 자료
`, topic)
}

func quizPrompt(skill, level string) string {
	return fmt.Sprintf(`'%[1]s' 분야의 %[2]s 수준에 맞는 O/X 퀴즈 10개를 만들어주세요.

📌 **규칙**:
1. 각 문제는 O(참) 또는 X(거짓)로 명확히 답할 수 있어야 합니다.
2. '%[1]s' 분야의 핵심 개념을 다룹니다.
3. %[2]s 수준에 맞게 난이도를 조절합니다.
4. 각 문제에 정답 또는 오답인 이유를 설명하는 explanation을 포함합니다.

⚠️ **필수 출력 형식** (JSON):
`+"```json"+`
{
  "quizzes": [
    {"id": 1, "type": "OX", "question": "질문 내용", "options": [], "answerKey": "O", "explanation": "정답이 O인 이유"},
    {"id": 2, "type": "OX", "question": "질문 내용", "options": [], "answerKey": "X", "explanation": "정답이 X인 이유"}
  ]
}
`+"```"+`

answerKey는 반드시 "O" 또는 "X" 중 하나입니다.
`, skill, level)
}

func reviewPrompt(topics string) string {
	return fmt.Sprintf(`📖 **어제 학습한 내용의 복습 자료를 찾아주세요.**

🔍 **주제**: %s

🚨 **절대 금지 사항**
- example.com, example.org 등 EXAMPLE이 들어간 모든 URL 절대 사용 금지
- 존재하지 않는 가상의 자료 생성 금지
- 반드시 실제 접근 가능한 URL만 제공

⚠️ **필수 출력 형식** (JSON):
`+"```json"+`
{
  "materials": [
    {"title": "자료 제목", "type": "유튜브", "url": "https://...", "description": "복습에 도움이 되는 이유", "duration": "영상 길이"},
    {"title": "자료 제목", "type": "블로그", "url": "https://...", "description": "복습에 도움이 되는 이유", "duration": "예상 읽기 시간"}
  ]
}
`+"```"+`

📌 **요청사항**:
- 총 5개: 유튜브 영상 2개, 블로그/문서 2개, 강좌나 도서 1개
- 반드시 한국어 또는 영어로 된 실제 자료
`, topics)
}
