package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/models"
	"github.com/hmtc-its/hmtc-portal/internal/schedule"
	"github.com/hmtc-its/hmtc-portal/internal/service"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
)

func cmdSchedule(ctx context.Context, a *app, args []string) error {
	client := service.NewScheduleClient(a.site)
	return dispatch("schedule", args, map[string]func([]string) error{
		"status": func(args []string) error {
			fs := newFlagSet("schedule status")
			path := fs.String("path", service.MagangPath, "Schedule path")
			if err := fs.Parse(args); err != nil {
				return err
			}
			active, err := client.Status(ctx, *path)
			if err != nil {
				return err
			}
			return a.print(map[string]interface{}{"path": *path, "active": active})
		},
		"watch": func(args []string) error {
			fs := newFlagSet("schedule watch")
			paths := fs.String("paths", strings.Join(a.cfg.Schedule.Paths, ","), "Comma separated schedule paths")
			interval := fs.Duration("interval", a.cfg.Schedule.PollInterval, "Poll interval")
			if err := fs.Parse(args); err != nil {
				return err
			}

			bus := schedule.NewBroadcaster()
			bus.Subscribe(func(ev schedule.Event) {
				if err := a.print(ev); err != nil {
					a.logger.Warn("print schedule event", zap.Error(err))
				}
			})
			watcher := schedule.NewWatcher(client, bus, strings.Split(*paths, ","), schedule.Config{
				Interval: *interval,
				Logger:   a.logger,
			})
			if len(watcher.Paths()) == 0 {
				return fmt.Errorf("schedule watch: no paths given")
			}
			a.logger.Info("watching schedule", zap.Strings("paths", watcher.Paths()), zap.Duration("interval", *interval))
			return watcher.Run(ctx)
		},
	})
}

func cmdMagang(ctx context.Context, a *app, args []string) error {
	return dispatch("magang", args, map[string]func([]string) error{
		"apply": func(args []string) error {
			fs := newFlagSet("magang apply")
			var in validation.MagangInput
			fs.StringVar(&in.Nama, "nama", "", "Applicant name")
			fs.StringVar(&in.NRP, "nrp", "", "Student number")
			fs.StringVar(&in.KelompokKP, "kelompok", "", "KP group")
			mindmap := fs.String("mindmap", "", "Mindmap file (jpg, png or pdf)")
			check := fs.Bool("check", true, "Ask the schedule before submitting")
			if err := fs.Parse(args); err != nil {
				return err
			}
			file, closeFile, err := openFile(*mindmap)
			if err != nil {
				return err
			}
			defer closeFile()
			in.Mindmap = file
			form, err := validation.ValidateMagang(in)
			if err != nil {
				return err
			}

			if *check {
				checkCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
				active, err := service.NewScheduleClient(a.site).Status(checkCtx, service.MagangPath)
				cancel()
				if err != nil {
					return err
				}
				if !active {
					return fmt.Errorf("magang registration is closed")
				}
			}

			var out *models.ApplyMagangResponse
			out, err = service.NewMagangService(a.site).Apply(ctx, form)
			if err != nil {
				return err
			}
			return a.print(out)
		},
	})
}
