// Package referencedata は会社構造の参照データをファイルから読み込みます。
package referencedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ogurasousui/hrcore/internal/core/structure"
)

const (
	companyFile        = "company"
	departmentsFile    = "departments"
	rolesFile          = "roles"
	teamsFile          = "teams"
	qualificationsFile = "qualifications"
)

var extensions = []string{".json", ".yaml", ".yml"}

// ErrFileNotFound は参照データのファイルが見つからない場合に返却されます。
var ErrFileNotFound = errors.New("referencedata: file not found")

type companyRecord struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Departments []string `json:"departments" yaml:"departments"`
}

type departmentRecord struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Teams []string `json:"teams" yaml:"teams"`
}

type roleRecord struct {
	ID                     string   `json:"id" yaml:"id"`
	Name                   string   `json:"name" yaml:"name"`
	RequiredQualifications []string `json:"requiredQualifications" yaml:"requiredQualifications"`
}

type teamRecord struct {
	ID    string   `json:"id" yaml:"id"`
	Name  string   `json:"name" yaml:"name"`
	Roles []string `json:"roles" yaml:"roles"`
}

type qualificationRecord struct {
	RoleID         string   `json:"roleId" yaml:"roleId"`
	RequiredYears  int      `json:"requiredYears" yaml:"requiredYears"`
	Certifications []string `json:"certifications" yaml:"certifications"`
	Description    string   `json:"description" yaml:"description"`
	FollowUpSkills []string `json:"followUpSkills" yaml:"followUpSkills"`
	RequiredSkills []string `json:"requiredSkills" yaml:"requiredSkills"`
}

// qualificationEntry は資格一覧の要素です。資格そのもの、または資格一覧を包むオブジェクトのいずれかです。
type qualificationEntry struct {
	qualificationRecord `yaml:",inline"`
	Qualifications      []qualificationRecord `json:"qualifications" yaml:"qualifications"`
}

// FileSource はディレクトリ内の JSON または YAML ファイルから参照データを読み込みます。
type FileSource struct {
	dir string
}

// NewFileSource は FileSource を生成します。
func NewFileSource(dir string) *FileSource {
	return &FileSource{dir: dir}
}

// Load は 5 種類の参照データをすべて読み込みます。
func (s *FileSource) Load(ctx context.Context) (*structure.Snapshot, error) {
	var company companyRecord
	if err := s.decode(ctx, companyFile, &company); err != nil {
		return nil, err
	}

	var departments []departmentRecord
	if err := s.decode(ctx, departmentsFile, &departments); err != nil {
		return nil, err
	}

	var roles []roleRecord
	if err := s.decode(ctx, rolesFile, &roles); err != nil {
		return nil, err
	}

	var teams []teamRecord
	if err := s.decode(ctx, teamsFile, &teams); err != nil {
		return nil, err
	}

	var qualifications []qualificationEntry
	if err := s.decode(ctx, qualificationsFile, &qualifications); err != nil {
		return nil, err
	}

	snapshot := &structure.Snapshot{
		Company: structure.Company{
			ID:            company.ID,
			Name:          company.Name,
			DepartmentIDs: company.Departments,
		},
		Departments:    make([]structure.Department, 0, len(departments)),
		Roles:          make([]structure.Role, 0, len(roles)),
		Teams:          make([]structure.Team, 0, len(teams)),
		Qualifications: make([]structure.Qualification, 0, len(qualifications)),
	}

	for _, d := range departments {
		snapshot.Departments = append(snapshot.Departments, structure.Department{ID: d.ID, Name: d.Name, TeamIDs: d.Teams})
	}
	for _, r := range roles {
		snapshot.Roles = append(snapshot.Roles, structure.Role{ID: r.ID, Name: r.Name, RequiredQualifications: r.RequiredQualifications})
	}
	for _, t := range teams {
		snapshot.Teams = append(snapshot.Teams, structure.Team{ID: t.ID, Name: t.Name, RoleIDs: t.Roles})
	}
	for _, entry := range qualifications {
		if len(entry.Qualifications) > 0 {
			for _, q := range entry.Qualifications {
				snapshot.Qualifications = append(snapshot.Qualifications, toQualification(q))
			}
			continue
		}
		snapshot.Qualifications = append(snapshot.Qualifications, toQualification(entry.qualificationRecord))
	}

	return snapshot, nil
}

func toQualification(q qualificationRecord) structure.Qualification {
	return structure.Qualification{
		RoleID:         q.RoleID,
		RequiredYears:  q.RequiredYears,
		Certifications: q.Certifications,
		Description:    q.Description,
		FollowUpSkills: q.FollowUpSkills,
		RequiredSkills: q.RequiredSkills,
	}
}

func (s *FileSource) decode(ctx context.Context, name string, v any) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	path, err := s.resolve(name)
	if err != nil {
		return err
	}

	b, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("referencedata: read file %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		err = json.Unmarshal(b, v)
	default:
		err = yaml.Unmarshal(b, v)
	}
	if err != nil {
		return fmt.Errorf("referencedata: parse %s: %w", path, err)
	}
	return nil
}

func (s *FileSource) resolve(name string) (string, error) {
	for _, ext := range extensions {
		path := filepath.Join(s.dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: %s in %s", ErrFileNotFound, name, s.dir)
}
