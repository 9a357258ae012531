package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-resty/resty/v2"

	"github.com/goliatone/go-formflow/internal/fill"
	"github.com/goliatone/go-formflow/pkg/session"
	"github.com/goliatone/go-formflow/pkg/store"
)

func main() {
	formID := flag.String("form", "", "form ID to fill")
	dir := flag.String("dir", "forms", "directory holding form documents")
	server := flag.String("server", "", "form service base URL (overrides -dir)")
	submitURL := flag.String("submit-url", "", "POST accepted payloads here instead of printing them")
	flag.Parse()

	if *formID == "" {
		log.Fatal("missing -form")
	}

	ctx := context.Background()

	var st store.Store = store.NewFS(*dir)
	if *server != "" {
		st = store.NewHTTP(*server)
	}

	form, err := st.Fetch(ctx, *formID)
	if err != nil {
		log.Fatalf("Failed to fetch form: %v", err)
	}

	sess := session.New(form, session.WithSubmitter(newSubmitter(*submitURL)))
	runner := fill.NewRunner(form, sess, fill.NewSurveyDriver())

	message, err := runner.Run(ctx)
	if err != nil {
		log.Fatalf("Fill failed: %v", err)
	}
	if message != "" {
		fmt.Println(message)
	}
}

func newSubmitter(url string) session.Submitter {
	if url == "" {
		return session.SubmitterFunc(func(_ context.Context, payload map[string]any) error {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(payload)
		})
	}

	client := resty.New()
	return session.SubmitterFunc(func(ctx context.Context, payload map[string]any) error {
		resp, err := client.R().SetContext(ctx).SetBody(payload).Post(url)
		if err != nil {
			return err
		}
		if resp.IsError() {
			return fmt.Errorf("submit: %s", resp.Status())
		}
		return nil
	})
}
