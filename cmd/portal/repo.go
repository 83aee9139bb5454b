package main

import (
	"context"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/service"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
)

func cmdRepo(ctx context.Context, a *app, args []string) error {
	repos := service.NewRepositoryService(a.backend)

	payload := func(name string, args []string, withID bool) (int64, models.RepositoryPayload, error) {
		fs := newFlagSet(name)
		id := fs.Int64("id", 0, "Repository entry id")
		var in validation.RepositoryInput
		fs.StringVar(&in.Title, "title", "", "Title")
		fs.StringVar(&in.Description, "description", "", "Description")
		fs.StringVar(&in.Category, "category", "", "Category")
		fs.StringVar(&in.Link, "link", "", "Link to the document")
		fs.StringVar(&in.Authors, "authors", "", "Comma separated authors")
		fs.StringVar(&in.Tags, "tags", "", "Comma separated tags")
		if err := fs.Parse(args); err != nil {
			return 0, models.RepositoryPayload{}, err
		}
		if withID {
			if err := requireID(fs, *id); err != nil {
				return 0, models.RepositoryPayload{}, err
			}
		}
		p, err := validation.ValidateRepository(in)
		return *id, p, err
	}

	return dispatch("repo", args, map[string]func([]string) error{
		"list": func(args []string) error {
			fs := newFlagSet("repo list")
			var f models.RepositoryFilter
			var status string
			fs.StringVar(&f.Search, "search", "", "Title search")
			fs.StringVar(&f.Category, "category", "", "Category filter")
			fs.StringVar(&status, "status", "", "Status filter (draft, published, archived)")
			fs.IntVar(&f.Page, "page", 1, "Page number")
			fs.IntVar(&f.Limit, "limit", 20, "Page size")
			if err := fs.Parse(args); err != nil {
				return err
			}
			f.Status = models.RepositoryStatus(status)
			env, err := repos.List(ctx, f)
			return emit(a, env, err)
		},
		"get": func(args []string) error {
			fs := newFlagSet("repo get")
			id := fs.Int64("id", 0, "Repository entry id")
			if err := fs.Parse(args); err != nil {
				return err
			}
			if err := requireID(fs, *id); err != nil {
				return err
			}
			env, err := repos.Get(ctx, *id)
			return emit(a, env, err)
		},
		"create": func(args []string) error {
			_, p, err := payload("repo create", args, false)
			if err != nil {
				return err
			}
			env, err := repos.Create(ctx, p)
			return emit(a, env, err)
		},
		"update": func(args []string) error {
			id, p, err := payload("repo update", args, true)
			if err != nil {
				return err
			}
			env, err := repos.Update(ctx, id, p)
			return emit(a, env, err)
		},
		"status": func(args []string) error {
			fs := newFlagSet("repo status")
			id := fs.Int64("id", 0, "Repository entry id")
			status := fs.String("to", "", "Target status (draft, published, archived)")
			if err := fs.Parse(args); err != nil {
				return err
			}
			if err := requireID(fs, *id); err != nil {
				return err
			}
			target := models.RepositoryStatus(*status)
			if !target.Valid() {
				return validation.FieldErrors{"status": "must be draft, published or archived"}
			}
			env, err := repos.UpdateStatus(ctx, *id, target)
			return emit(a, env, err)
		},
		"delete": func(args []string) error {
			fs := newFlagSet("repo delete")
			id := fs.Int64("id", 0, "Repository entry id")
			if err := fs.Parse(args); err != nil {
				return err
			}
			if err := requireID(fs, *id); err != nil {
				return err
			}
			env, err := repos.Delete(ctx, *id)
			if err != nil {
				return err
			}
			if err := env.Err(); err != nil {
				return err
			}
			return a.print(map[string]interface{}{"deleted": *id})
		},
	})
}
