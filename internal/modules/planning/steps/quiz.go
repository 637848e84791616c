package steps

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/extract"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/observability"
	"github.com/yungbote/palearn-backend/internal/platform/apierr"
)

const MaxQuizItems = 10

// QuizStore keeps the last quiz handed to each user so it can be graded.
type QuizStore interface {
	Save(ctx context.Context, tx *gorm.DB, userID, skill, level string, items []domain.QuizItem) error
	Load(ctx context.Context, tx *gorm.DB, userID string) ([]domain.QuizItem, error)
}

type QuizInput struct {
	UserID   string
	Skill    string
	Level    string
	Limit    int
	Observer generator.Observer
}

// QuizItems asks the normal tier for an O/X quiz and falls back to a built-in
// general computing quiz. The returned items are saved for GradeQuiz; a save
// failure is logged and the quiz is still returned.
func QuizItems(ctx context.Context, deps PlanDeps, in QuizInput) []domain.QuizItem {
	ctx, span := observability.StartSpan(ctx, "planning.quiz_items", "skill", in.Skill)
	defer span.End()

	skill := strings.TrimSpace(in.Skill)
	if skill == "" {
		skill = "general"
	}
	level := strings.TrimSpace(in.Level)
	if level == "" {
		level = domain.LevelBeginner
	}
	limit := in.Limit
	if limit <= 0 || limit > MaxQuizItems {
		limit = MaxQuizItems
	}

	var items []domain.QuizItem
	if data := extract.JSON(deps.Chain.Generate(ctx, quizPrompt(skill, level), false, in.Observer)); data != nil {
		items = domain.DecodeQuizItems(data["quizzes"])
	}
	source := "generator"
	if len(items) == 0 {
		items, source = defaultQuiz(), "default"
	}
	if len(items) > limit {
		items = items[:limit]
	}

	if deps.Quizzes != nil && in.UserID != "" {
		if err := deps.Quizzes.Save(ctx, nil, in.UserID, skill, level, items); err != nil {
			deps.Log.Warn("quiz not saved", "user_id", in.UserID, "error", err)
		}
	}
	deps.Log.Info("quiz ready", "user_id", in.UserID, "skill", skill, "count", len(items), "source", source)
	return items
}

var errNoUser = apierr.New(http.StatusUnauthorized, "unauthorized", errors.New("user id required"))

// GradeQuiz grades answers against the user's last quiz. Without a stored
// quiz every answer counts as wrong.
func GradeQuiz(ctx context.Context, deps PlanDeps, userID string, answers []domain.QuizAnswer) (domain.QuizGrade, error) {
	if userID == "" {
		return domain.QuizGrade{}, errNoUser
	}
	var items []domain.QuizItem
	if deps.Quizzes != nil {
		var err error
		if items, err = deps.Quizzes.Load(ctx, nil, userID); err != nil {
			return domain.QuizGrade{}, err
		}
	}
	g := domain.GradeQuiz(items, answers)
	deps.Log.Info("quiz graded", "user_id", userID, "correct", g.Correct, "total", g.Total, "level", g.Level)
	return g, nil
}

func defaultQuiz() []domain.QuizItem {
	ox := func(id int, q, key, why string) domain.QuizItem {
		return domain.QuizItem{ID: id, Type: domain.QuizTypeOX, Question: q, Options: []string{}, AnswerKey: key, Explanation: why}
	}
	return []domain.QuizItem{
		ox(1, "컴퓨터는 0과 1로 모든 연산을 처리한다.", "O", "컴퓨터는 이진법으로 모든 데이터를 표현하고 연산합니다."),
		ox(2, "인터넷과 월드와이드웹(WWW)은 같은 의미이다.", "X", "인터넷은 네트워크 인프라이고 WWW는 그 위에서 동작하는 서비스 중 하나입니다."),
		ox(3, "프로그래밍 언어는 기계어만 존재한다.", "X", "어셈블리어와 Python, Java 같은 고급 언어도 있습니다."),
		ox(4, "RAM은 전원이 꺼지면 데이터가 사라지는 휘발성 메모리이다.", "O", "RAM은 휘발성이고 SSD나 HDD는 비휘발성입니다."),
		ox(5, "HTML은 프로그래밍 언어이다.", "X", "HTML은 웹 페이지 구조를 정의하는 마크업 언어입니다."),
		ox(6, "1바이트(Byte)는 8비트(bit)이다.", "O", "1바이트는 8비트로 구성됩니다."),
		ox(7, "CPU는 컴퓨터의 장기 저장 장치이다.", "X", "CPU는 연산과 제어를 맡고 장기 저장은 HDD나 SSD가 맡습니다."),
		ox(8, "운영체제(OS)는 하드웨어와 소프트웨어 사이를 중재하는 시스템 소프트웨어이다.", "O", "운영체제는 하드웨어를 관리하고 응용 프로그램에 인터페이스를 제공합니다."),
		ox(9, "IP 주소는 인터넷에서 컴퓨터를 식별하는 고유한 주소이다.", "O", "IPv4는 32비트, IPv6는 128비트 주소를 씁니다."),
		ox(10, "클라우드 컴퓨팅은 반드시 인터넷 연결 없이도 사용할 수 있다.", "X", "클라우드는 원격 서버 자원을 쓰므로 인터넷 연결이 필요합니다."),
	}
}
