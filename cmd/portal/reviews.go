package main

import (
	"context"
	"flag"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/service"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
)

func reviewFilterFlags(fs *flag.FlagSet) (*models.ReviewFilter, *string) {
	f := &models.ReviewFilter{}
	status := fs.String("status", "", "Status filter (in_review, approved, rejected)")
	fs.StringVar(&f.Search, "search", "", "Title search")
	fs.IntVar(&f.Page, "page", 1, "Page number")
	fs.IntVar(&f.Limit, "limit", 20, "Page size")
	return f, status
}

func parseDecision(name string, args []string) (int64, models.ReviewDecision, error) {
	fs := newFlagSet(name)
	id := fs.Int64("id", 0, "Item id")
	status := fs.String("status", "", "Verdict (approved or rejected)")
	note := fs.String("note", "", "Note for the submitter")
	if err := fs.Parse(args); err != nil {
		return 0, models.ReviewDecision{}, err
	}
	if err := requireID(fs, *id); err != nil {
		return 0, models.ReviewDecision{}, err
	}
	decision := models.ReviewDecision{Status: models.ReviewStatus(*status), Note: *note}
	if !decision.Status.Terminal() {
		return 0, models.ReviewDecision{}, validation.FieldErrors{"status": "must be approved or rejected"}
	}
	return *id, decision, nil
}

func parseGet(name string, args []string) (int64, error) {
	fs := newFlagSet(name)
	id := fs.Int64("id", 0, "Item id")
	if err := fs.Parse(args); err != nil {
		return 0, err
	}
	return *id, requireID(fs, *id)
}

func cmdRequests(ctx context.Context, a *app, args []string) error {
	requests := service.NewRequestService(a.backend)
	return dispatch("requests", args, map[string]func([]string) error{
		"list": func(args []string) error {
			fs := newFlagSet("requests list")
			f, status := reviewFilterFlags(fs)
			if err := fs.Parse(args); err != nil {
				return err
			}
			f.Status = models.ReviewStatus(*status)
			env, err := requests.List(ctx, *f)
			return emit(a, env, err)
		},
		"get": func(args []string) error {
			id, err := parseGet("requests get", args)
			if err != nil {
				return err
			}
			env, err := requests.Get(ctx, id)
			return emit(a, env, err)
		},
		"create": func(args []string) error {
			fs := newFlagSet("requests create")
			var in validation.AccessRequestInput
			fs.StringVar(&in.Title, "title", "", "Title")
			fs.StringVar(&in.Type, "type", "", "Request type")
			fs.StringVar(&in.Description, "description", "", "What is being requested and why")
			if err := fs.Parse(args); err != nil {
				return err
			}
			payload, err := validation.ValidateAccessRequest(in)
			if err != nil {
				return err
			}
			env, err := requests.Create(ctx, payload)
			return emit(a, env, err)
		},
		"review": func(args []string) error {
			id, decision, err := parseDecision("requests review", args)
			if err != nil {
				return err
			}
			env, err := requests.Review(ctx, id, decision)
			return emit(a, env, err)
		},
	})
}

func cmdUploads(ctx context.Context, a *app, args []string) error {
	uploads := service.NewUploadService(a.backend)
	return dispatch("uploads", args, map[string]func([]string) error{
		"list": func(args []string) error {
			fs := newFlagSet("uploads list")
			f, status := reviewFilterFlags(fs)
			if err := fs.Parse(args); err != nil {
				return err
			}
			f.Status = models.ReviewStatus(*status)
			env, err := uploads.List(ctx, *f)
			return emit(a, env, err)
		},
		"get": func(args []string) error {
			id, err := parseGet("uploads get", args)
			if err != nil {
				return err
			}
			env, err := uploads.Get(ctx, id)
			return emit(a, env, err)
		},
		"submit": func(args []string) error {
			fs := newFlagSet("uploads submit")
			var in validation.UploadInput
			fs.StringVar(&in.Title, "title", "", "Title")
			fs.StringVar(&in.Description, "description", "", "Description")
			path := fs.String("file", "", "File to upload")
			if err := fs.Parse(args); err != nil {
				return err
			}
			file, closeFile, err := openFile(*path)
			if err != nil {
				return err
			}
			defer closeFile()
			in.File = file
			form, err := validation.ValidateUpload(in, a.cfg.Uploads.MaxFileBytes)
			if err != nil {
				return err
			}
			env, err := uploads.Submit(ctx, form)
			return emit(a, env, err)
		},
		"review": func(args []string) error {
			id, decision, err := parseDecision("uploads review", args)
			if err != nil {
				return err
			}
			env, err := uploads.Review(ctx, id, decision)
			return emit(a, env, err)
		},
	})
}
