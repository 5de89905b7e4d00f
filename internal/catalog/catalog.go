// Package catalog embeds the default course list and study directory.
package catalog

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/oeh-wirtschaft/oeh-backend/internal/model"
	"github.com/oeh-wirtschaft/oeh-backend/internal/repository"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var raw []byte

// Catalog is the parsed seed file.
type Catalog struct {
	Semester   string     `yaml:"semester"`
	Categories []Category `yaml:"categories"`
	Courses    []string   `yaml:"courses"`
}

// Category is a seeded study category with its programs.
type Category struct {
	Name        string    `yaml:"name"`
	DisplayName string    `yaml:"display_name"`
	Color       string    `yaml:"color"`
	SortOrder   int       `yaml:"sort_order"`
	Programs    []Program `yaml:"programs"`
}

// Program is a seeded study program with its curriculum updates.
type Program struct {
	Name    string   `yaml:"name"`
	Updates []string `yaml:"updates"`
}

// Load parses the embedded catalog.
func Load() (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(raw, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return &c, nil
}

// SeedCourses inserts the course list when the table is empty.
// It returns the number of courses inserted.
func (c *Catalog) SeedCourses(ctx context.Context, courses repository.CourseRepository) (int, error) {
	n, err := courses.Count(ctx)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	inserted, _, err := c.ImportCourses(ctx, courses)
	return inserted, err
}

// ImportCourses inserts every catalog course whose name is not taken yet.
func (c *Catalog) ImportCourses(ctx context.Context, courses repository.CourseRepository) (imported, skipped int, err error) {
	for _, name := range c.Courses {
		created, err := courses.CreateIfMissing(ctx, name)
		if err != nil {
			return imported, skipped, fmt.Errorf("import course %q: %w", name, err)
		}
		if created {
			imported++
		} else {
			skipped++
		}
	}
	return imported, skipped, nil
}

// SeedStudy inserts categories, programs and updates when no category exists.
// Updates are attributed to createdBy. It reports whether anything was seeded.
func (c *Catalog) SeedStudy(ctx context.Context, study repository.StudyRepository, createdBy int) (bool, error) {
	n, err := study.CountCategories(ctx)
	if err != nil {
		return false, err
	}
	if n > 0 {
		return false, nil
	}

	semester := c.Semester
	for _, cat := range c.Categories {
		category := &model.StudyCategory{
			Name:        cat.Name,
			DisplayName: cat.DisplayName,
			Color:       cat.Color,
			SortOrder:   cat.SortOrder,
		}
		if err := study.CreateCategory(ctx, category); err != nil {
			return false, fmt.Errorf("seed category %q: %w", cat.Name, err)
		}

		for i, prog := range cat.Programs {
			program := &model.StudyProgram{
				CategoryID: category.ID,
				Name:       prog.Name,
				SortOrder:  i,
				IsActive:   true,
			}
			if err := study.CreateProgram(ctx, program); err != nil {
				return false, fmt.Errorf("seed program %q: %w", prog.Name, err)
			}

			for j, content := range prog.Updates {
				update := &model.StudyUpdate{
					ProgramID: program.ID,
					Content:   content,
					Semester:  &semester,
					IsActive:  true,
					SortOrder: j,
					CreatedBy: &createdBy,
				}
				if err := study.CreateUpdate(ctx, update); err != nil {
					return false, fmt.Errorf("seed update for %q: %w", prog.Name, err)
				}
			}
		}
	}
	return true, nil
}
