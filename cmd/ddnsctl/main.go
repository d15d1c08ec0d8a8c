package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/0x6666/ddns-client/internal/app"
	"github.com/0x6666/ddns-client/internal/config"
	"github.com/0x6666/ddns-client/pkg/ddnsapi"
	"github.com/spf13/pflag"
)

const usage = `usage: ddnsctl new-recode [flags]

Submits one record to the DDNS server and prints the response body.

flags:
`

func main() {
	code, err := run(os.Args[1:], os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ddnsctl: %v\n", err)
	}
	os.Exit(code)
}

func run(args []string, out io.Writer) (int, error) {
	if len(args) == 0 || args[0] != "new-recode" {
		fmt.Fprint(os.Stderr, usage)
		newFlagSet().PrintDefaults()
		return 2, errors.New("expected subcommand new-recode")
	}

	flags := newFlagSet()
	if err := flags.Parse(args[1:]); err != nil {
		return 2, err
	}

	data, err := payloadFromFlags(flags)
	if err != nil {
		return 2, err
	}

	cfg, err := config.LoadWithFlags(flags)
	if err != nil {
		return 1, fmt.Errorf("load config: %w", err)
	}
	client, err := app.NewClient(cfg)
	if err != nil {
		return 1, err
	}

	contentType, _ := flags.GetString("content-type")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	var callErr error
	client.NewRecodeWithOptions(ctx, data,
		func(body []byte) { _, _ = out.Write(body) },
		func(err error) { callErr = err },
		ddnsapi.CallOptions{ContentType: contentType, Blocking: true},
	)
	if callErr != nil {
		var apiErr *ddnsapi.Error
		if errors.As(callErr, &apiErr) && !apiErr.Transport() {
			return 1, fmt.Errorf("server replied %s: %s", apiErr.Status, apiErr.Summary())
		}
		return 1, callErr
	}
	return 0, nil
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("new-recode", pflag.ContinueOnError)
	flags.StringArray("field", nil, "record field as key=value (repeatable)")
	flags.String("body", "", "pre-encoded request body, sent verbatim")
	flags.String("content-type", "", "request content type (default form encoding)")
	flags.String("server_url", "", "DDNS server base url")
	flags.String("session_cookie", "", "existing session cookie value")
	flags.Int64("request_timeout_seconds", 0, "request timeout in seconds")
	return flags
}

// payloadFromFlags builds the request data from either --body or --field.
func payloadFromFlags(flags *pflag.FlagSet) (any, error) {
	body, _ := flags.GetString("body")
	fields, _ := flags.GetStringArray("field")

	switch {
	case body != "" && len(fields) > 0:
		return nil, errors.New("--body and --field are mutually exclusive")
	case body != "":
		return body, nil
	case len(fields) == 0:
		return nil, errors.New("one of --body or --field is required")
	}

	values := url.Values{}
	for _, f := range fields {
		key, value, ok := strings.Cut(f, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid --field %q (want key=value)", f)
		}
		values.Add(key, value)
	}
	return values, nil
}
