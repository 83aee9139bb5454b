package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/hmtc-its/hmtc-portal/internal/validation"
	"github.com/hmtc-its/hmtc-portal/pkg/apiclient"
)

func (a *app) print(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// emit prints the envelope data, or turns a failed envelope into an error.
func emit[T any](a *app, env *apiclient.Envelope[T], err error) error {
	if err != nil {
		return err
	}
	if err := env.Err(); err != nil {
		return err
	}
	return a.print(env.Data)
}

func describe(err error) string {
	if fe, ok := validation.AsFieldErrors(err); ok {
		keys := make([]string, 0, len(fe))
		for k := range fe {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		lines := make([]string, 0, len(keys))
		for _, k := range keys {
			lines = append(lines, fmt.Sprintf("  %s: %s", k, fe[k]))
		}
		return "invalid input\n" + strings.Join(lines, "\n")
	}
	var httpErr *apiclient.HTTPError
	if errors.As(err, &httpErr) {
		return fmt.Sprintf("%s (status %d)", httpErr.Message, httpErr.StatusCode)
	}
	return err.Error()
}

func newFlagSet(name string) *flag.FlagSet {
	return flag.NewFlagSet(name, flag.ContinueOnError)
}

// dispatch runs the named action of a command group.
func dispatch(group string, args []string, actions map[string]func([]string) error) error {
	if len(args) == 0 {
		return fmt.Errorf("%s: missing action (%s)", group, actionNames(actions))
	}
	action, ok := actions[args[0]]
	if !ok {
		return fmt.Errorf("%s: unknown action %q (%s)", group, args[0], actionNames(actions))
	}
	return action(args[1:])
}

func actionNames(actions map[string]func([]string) error) string {
	names := make([]string, 0, len(actions))
	for name := range actions {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// openFile wraps a local file as a multipart attachment. A blank path
// yields a nil file.
func openFile(path string) (*apiclient.File, func(), error) {
	if path == "" {
		return nil, func() {}, nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return &apiclient.File{
		Name:        filepath.Base(path),
		ContentType: mime.TypeByExtension(strings.ToLower(filepath.Ext(path))),
		Size:        info.Size(),
		Content:     f,
	}, func() { f.Close() }, nil
}

func requireID(fs *flag.FlagSet, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%s: -id is required", fs.Name())
	}
	return nil
}
