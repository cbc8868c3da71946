package assignment

import (
	"fmt"

	"github.com/dalemusser/evalhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// orgChart builds three teams. Team "alpha" has five eligible members
// a1..a5 led by a1 (by name), plus one resigned member.
func orgChart() []models.Team {
	team := func(id, lead string, n int) models.Team {
		t := models.Team{ID: id, Name: id, Lead: lead}
		var first, second []models.Member
		for i := 1; i <= n; i++ {
			m := models.Member{
				ID:     fmt.Sprintf("%s%d", id[:1], i),
				Name:   fmt.Sprintf("%s-%d", id, i),
				Status: models.MemberActive,
				TeamID: id,
			}
			if i <= (n+1)/2 {
				m.PartID = id + "-p1"
				first = append(first, m)
			} else {
				m.PartID = id + "-p2"
				second = append(second, m)
			}
		}
		t.Parts = []models.Part{
			{ID: id + "-p1", Title: "one", Members: first},
			{ID: id + "-p2", Title: "two", Members: second},
		}
		return t
	}

	alpha := team("alpha", "alpha-1", 5)
	alpha.Members = []models.Member{{ID: "ax", Name: "gone", Status: models.MemberResigned, TeamID: "alpha"}}
	return []models.Team{alpha, team("bravo", "bravo-2", 3), team("charlie", "", 4)}
}

func memberByID(teams []models.Team, id string) models.Member {
	for _, t := range teams {
		for _, p := range t.Parts {
			for _, m := range p.Members {
				if m.ID == id {
					return m
				}
			}
		}
	}
	panic("no member " + id)
}

func sampleTemplate() models.Template {
	return models.Template{
		ID:      primitive.NewObjectID(),
		Title:   "Quarterly review",
		Content: bson.M{"sections": bson.A{"goals", "values"}},
	}
}

type tuple struct {
	Evaluator, Evaluatee, Relation string
}

func tuples(as []models.Assignment) []tuple {
	out := make([]tuple, len(as))
	for i, a := range as {
		out[i] = tuple{a.EvaluatorID, a.EvaluateeID, a.Relation}
	}
	return out
}
