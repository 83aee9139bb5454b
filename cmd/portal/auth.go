package main

import (
	"context"
	"os"

	"go.uber.org/zap"

	"github.com/hmtc-its/hmtc-portal/internal/service"
	"github.com/hmtc-its/hmtc-portal/internal/validation"
)

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("login")
	var in validation.LoginInput
	fs.StringVar(&in.NRP, "nrp", "", "Student number")
	fs.StringVar(&in.Password, "password", os.Getenv("PORTAL_PASSWORD"), "Password (defaults to $PORTAL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req, err := validation.ValidateLogin(in)
	if err != nil {
		return err
	}

	auth := service.NewAuthService(a.backend, a.session, a.logger)
	env, err := auth.Login(ctx, req)
	if err != nil {
		return err
	}
	if err := env.Err(); err != nil {
		return err
	}
	if err := saveToken(a.tokenFile, env.Data.Token); err != nil {
		return err
	}
	a.logger.Info("signed in", zap.String("nrp", req.NRP), zap.String("token_file", a.tokenFile))
	return a.print(env.Data.User)
}

func cmdLogout(_ context.Context, a *app, _ []string) error {
	service.NewAuthService(a.backend, a.session, a.logger).Logout()
	return removeToken(a.tokenFile)
}

func cmdRegister(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("register")
	var in validation.RegisterInput
	fs.StringVar(&in.Name, "name", "", "Display name")
	fs.StringVar(&in.FullName, "full-name", "", "Full name")
	fs.StringVar(&in.NRP, "nrp", "", "Student number")
	fs.StringVar(&in.Email, "email", "", "Email address")
	fs.StringVar(&in.Angkatan, "angkatan", "", "Intake year")
	fs.StringVar(&in.Password, "password", os.Getenv("PORTAL_PASSWORD"), "Password (defaults to $PORTAL_PASSWORD)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.ConfirmPassword = in.Password
	req, err := validation.ValidateRegister(in)
	if err != nil {
		return err
	}
	env, err := service.NewAuthService(a.backend, a.session, a.logger).Register(ctx, req)
	return emit(a, env, err)
}

func cmdForgotPassword(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("forgot-password")
	email := fs.String("email", "", "Account email address")
	if err := fs.Parse(args); err != nil {
		return err
	}
	req, err := validation.ValidateForgotPassword(*email)
	if err != nil {
		return err
	}
	env, err := service.NewAuthService(a.backend, a.session, a.logger).ForgotPassword(ctx, req)
	if err != nil {
		return err
	}
	if err := env.Err(); err != nil {
		return err
	}
	return a.print(map[string]string{"message": env.Message})
}

func cmdChangePassword(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("change-password")
	var in validation.ChangePasswordInput
	fs.StringVar(&in.OldPassword, "old", "", "Current password")
	fs.StringVar(&in.NewPassword, "new", "", "New password")
	if err := fs.Parse(args); err != nil {
		return err
	}
	in.ConfirmPassword = in.NewPassword
	req, err := validation.ValidateChangePassword(in)
	if err != nil {
		return err
	}
	if a.session.Token() == "" {
		return service.ErrNoSession
	}
	env, err := service.NewAuthService(a.backend, a.session, a.logger).ChangePassword(ctx, req)
	if err != nil {
		return err
	}
	if err := env.Err(); err != nil {
		return err
	}
	return a.print(map[string]string{"message": env.Message})
}

func cmdMe(ctx context.Context, a *app, args []string) error {
	fs := newFlagSet("me")
	var in validation.ProfileInput
	fs.StringVar(&in.FullName, "full-name", "", "New full name")
	fs.StringVar(&in.Name, "name", "", "New display name")
	fs.StringVar(&in.Email, "email", "", "New email address")
	fs.StringVar(&in.Angkatan, "angkatan", "", "New intake year")
	avatar := fs.String("avatar", "", "Profile picture to upload")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if a.session.Token() == "" {
		return service.ErrNoSession
	}
	me := service.NewMeService(a.backend)

	if *avatar != "" {
		file, closeFile, err := openFile(*avatar)
		if err != nil {
			return err
		}
		defer closeFile()
		file, err = validation.ValidateAvatar(file)
		if err != nil {
			return err
		}
		env, err := me.UploadAvatar(ctx, file)
		if err != nil {
			return err
		}
		if err := env.Err(); err != nil {
			return err
		}
	}

	if in != (validation.ProfileInput{}) {
		req, err := validation.ValidateProfile(in)
		if err != nil {
			return err
		}
		env, err := me.Update(ctx, req)
		return emit(a, env, err)
	}
	env, err := me.Get(ctx)
	return emit(a, env, err)
}
