// Package training は社員の修了済み・未修了・受講候補のトレーニングを算出します。
package training

import (
	"strings"

	"github.com/samber/lo"

	"github.com/ogurasousui/hrcore/internal/core/employee"
	"github.com/ogurasousui/hrcore/internal/core/structure"
)

const unknownQualificationPrefix = "unknown qualification: "

// SkillGraph は資格の依存関係を解決する参照データの抽象です。*structure.Directory が満たします。
type SkillGraph interface {
	Role(id string) (structure.Role, bool)
	QualificationByIDOrRole(id string) (structure.Qualification, bool)
	RequiredSkills(id string) ([]string, bool)
	FollowUpSkills(id string) ([]string, bool)
}

// Advisor はトレーニングの提案を行います。
type Advisor struct {
	graph SkillGraph
}

// NewAdvisor は Advisor を生成します。
func NewAdvisor(graph SkillGraph) *Advisor {
	return &Advisor{graph: graph}
}

// CompletedTrainings は社員が修了した資格 ID を重複なしで返します。
func (a *Advisor) CompletedTrainings(e *employee.Employee) []string {
	if e == nil {
		return []string{}
	}
	return compact(e.CompletedTrainings)
}

// PotentialTrainings は修了済み資格から後続スキルを幅優先でたどり、到達できる未修了の資格を返します。
// 順序は最初に到達した順です。
func (a *Advisor) PotentialTrainings(e *employee.Employee) []string {
	completed := a.CompletedTrainings(e)
	done := lo.SliceToMap(completed, func(id string) (string, struct{}) { return id, struct{}{} })

	visited := make(map[string]struct{}, len(completed))
	queue := make([]string, 0, len(completed))
	for _, id := range completed {
		visited[id] = struct{}{}
		queue = append(queue, id)
	}

	potential := make([]string, 0)
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		next, ok := a.graph.FollowUpSkills(current)
		if !ok {
			continue
		}
		for _, id := range next {
			id = strings.TrimSpace(id)
			if id == "" {
				continue
			}
			if _, seen := visited[id]; seen {
				continue
			}
			visited[id] = struct{}{}
			queue = append(queue, id)
			if _, finished := done[id]; !finished {
				potential = append(potential, id)
			}
		}
	}
	return potential
}

// OpenTrainings は社員の役職が要求する資格のうち未修了のものを返します。
// 役職の必須資格と、役職に対応する資格の必須スキルの和集合から修了済みを除いたものです。
func (a *Advisor) OpenTrainings(e *employee.Employee) []string {
	if e == nil || strings.TrimSpace(e.RoleID) == "" {
		return []string{}
	}

	var required []string
	if role, ok := a.graph.Role(e.RoleID); ok {
		required = append(required, role.RequiredQualifications...)
	}
	if skills, ok := a.graph.RequiredSkills(e.RoleID); ok {
		required = append(required, skills...)
	}

	return lo.Without(compact(required), a.CompletedTrainings(e)...)
}

// DisplayName は資格の表示名を返します。解決できない場合もエラーにはせず代替文字列を返します。
func (a *Advisor) DisplayName(qualificationID string) string {
	if a.graph != nil {
		if q, ok := a.graph.QualificationByIDOrRole(qualificationID); ok {
			if q.Description != "" {
				return q.Description
			}
			return qualificationID
		}
	}
	return unknownQualificationPrefix + qualificationID
}

func compact(ids []string) []string {
	trimmed := lo.Map(ids, func(id string, _ int) string { return strings.TrimSpace(id) })
	return lo.Uniq(lo.Compact(trimmed))
}
