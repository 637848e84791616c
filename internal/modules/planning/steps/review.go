package steps

import (
	"context"
	"net/url"
	"strings"

	domain "github.com/yungbote/palearn-backend/internal/domain/planning"
	"github.com/yungbote/palearn-backend/internal/modules/planning/extract"
	"github.com/yungbote/palearn-backend/internal/modules/planning/generator"
	"github.com/yungbote/palearn-backend/internal/modules/planning/materials"
	"github.com/yungbote/palearn-backend/internal/observability"
)

const MaxReviewMaterials = 5

type ReviewOutput struct {
	Materials []domain.Material `json:"materials"`
	Topics    []string          `json:"topics"`
	Message   string            `json:"message"`
}

// ReviewMaterials finds review material for the given completed topics with a
// search tier. Without a usable answer it returns search links for the
// joined topics.
func ReviewMaterials(ctx context.Context, deps PlanDeps, topics []string, obs generator.Observer) ReviewOutput {
	ctx, span := observability.StartSpan(ctx, "planning.review_materials")
	defer span.End()

	joined := strings.Join(topics, ", ")
	data := extract.JSON(deps.Chain.Generate(ctx, reviewPrompt(joined), true, obs))
	if data != nil {
		valid := materials.Filter(domain.DecodeMaterials(data["materials"]))
		if len(valid) > MaxReviewMaterials {
			valid = valid[:MaxReviewMaterials]
		}
		if len(valid) > 0 {
			return ReviewOutput{Materials: valid, Topics: topics, Message: "'" + joined + "'에 대한 복습 자료입니다."}
		}
	}
	deps.Log.Info("no usable review materials, returning search links", "topics", len(topics))
	return ReviewOutput{Materials: reviewSearchLinks(joined), Topics: topics, Message: "'" + joined + "'에 대한 검색 링크입니다."}
}

func reviewSearchLinks(joined string) []domain.Material {
	q := strings.ReplaceAll(joined, ",", "")
	return []domain.Material{
		{
			Title:       joined + " - 유튜브 검색",
			Type:        domain.MaterialVideo,
			URL:         "https://www.youtube.com/results?search_query=" + url.QueryEscape(q),
			Description: "유튜브에서 관련 영상을 검색합니다.",
			Duration:    "-",
		},
		{
			Title:       joined + " - 네이버 블로그",
			Type:        domain.MaterialArticle,
			URL:         "https://search.naver.com/search.naver?where=post&query=" + url.QueryEscape(q),
			Description: "네이버 블로그에서 관련 글을 검색합니다.",
			Duration:    "-",
		},
		{
			Title:       joined + " - 구글 검색",
			Type:        domain.MaterialOther,
			URL:         "https://www.google.com/search?q=" + url.QueryEscape(q+" 강의"),
			Description: "구글에서 관련 강의를 검색합니다.",
			Duration:    "-",
		},
	}
}
