package main

import (
	"context"
	"flag"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/service"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
)

func cmdGallery(ctx context.Context, a *app, args []string) error {
	galleries := service.NewGalleryService(a.backend, a.logger)
	return dispatch("gallery", args, map[string]func([]string) error{
		"list": func(args []string) error {
			fs := newFlagSet("gallery list")
			var f models.GalleryFilter
			fs.StringVar(&f.Search, "search", "", "Title search")
			fs.StringVar(&f.Tag, "tag", "", "Tag filter")
			fs.IntVar(&f.Year, "year", 0, "Year filter")
			fs.IntVar(&f.Page, "page", 1, "Page number")
			fs.IntVar(&f.Limit, "limit", 20, "Page size")
			if err := fs.Parse(args); err != nil {
				return err
			}
			env, err := galleries.List(ctx, f)
			return emit(a, env, err)
		},
		"get": func(args []string) error {
			fs := newFlagSet("gallery get")
			id := fs.Int64("id", 0, "Gallery item id")
			if err := fs.Parse(args); err != nil {
				return err
			}
			if err := requireID(fs, *id); err != nil {
				return err
			}
			env, err := galleries.Get(ctx, *id)
			return emit(a, env, err)
		},
		"create": func(args []string) error {
			fs := newFlagSet("gallery create")
			form, closeFile, err := parseGalleryForm(fs, args)
			if err != nil {
				return err
			}
			defer closeFile()
			env, err := galleries.Create(ctx, form)
			return emit(a, env, err)
		},
		"update": func(args []string) error {
			fs := newFlagSet("gallery update")
			id := fs.Int64("id", 0, "Gallery item id")
			form, closeFile, err := parseGalleryForm(fs, args)
			if err != nil {
				return err
			}
			defer closeFile()
			if err := requireID(fs, *id); err != nil {
				return err
			}
			env, err := galleries.Update(ctx, *id, form)
			return emit(a, env, err)
		},
		"delete": func(args []string) error {
			fs := newFlagSet("gallery delete")
			id := fs.Int64("id", 0, "Gallery item id")
			if err := fs.Parse(args); err != nil {
				return err
			}
			if err := requireID(fs, *id); err != nil {
				return err
			}
			env, err := galleries.Delete(ctx, *id)
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

func parseGalleryForm(fs *flag.FlagSet, args []string) (validation.GalleryForm, func(), error) {
	var in validation.GalleryInput
	fs.StringVar(&in.Title, "title", "", "Title")
	fs.StringVar(&in.Date, "date", "", "Date (YYYY-MM-DD)")
	fs.StringVar(&in.Link, "link", "", "Google Drive link")
	fs.StringVar(&in.Image, "image", "", "Image URL (defaults to the Drive thumbnail)")
	fs.StringVar(&in.Width, "width", "", "Image width in pixels")
	fs.StringVar(&in.Height, "height", "", "Image height in pixels")
	fs.StringVar(&in.Description, "description", "", "Description")
	fs.StringVar(&in.Tags, "tags", "", "Comma separated tags")
	thumbnail := fs.String("thumbnail", "", "Thumbnail image to upload")
	if err := fs.Parse(args); err != nil {
		return validation.GalleryForm{}, nil, err
	}

	file, closeFile, err := openFile(*thumbnail)
	if err != nil {
		return validation.GalleryForm{}, nil, err
	}
	in.Thumbnail = file
	form, err := validation.ValidateGallery(in)
	if err != nil {
		closeFile()
		return validation.GalleryForm{}, nil, err
	}
	return form, closeFile, nil
}
