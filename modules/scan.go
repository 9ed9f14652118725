package modules

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"tokenlens/pkg/intake"
)

// RunScan runs the full pipeline over the text and renders the report.
func RunScan(ctx context.Context, svc *intake.Service, text string) (string, error) {
	if text == "" {
		return "Usage: scan [text]. Example: scan Just launched on the bonding curve, anon team, 1000x soon", nil
	}

	out, err := svc.Analyze(ctx, intake.Submission{ManualText: text})
	if err != nil {
		return failureReply(out, err), nil
	}
	return BuildReportReply(out.Report), nil
}

// RunJSON runs the full pipeline and returns the outcome as indented JSON.
func RunJSON(ctx context.Context, svc *intake.Service, text string) (string, error) {
	if text == "" {
		return "Usage: json [text]", nil
	}

	out, err := svc.Analyze(ctx, intake.Submission{ManualText: text})
	if err != nil && !errors.Is(err, intake.ErrEmptyInput) {
		// the fallback report is still worth returning
		out.Warnings = append(out.Warnings, summarizeErr(err))
	}
	b, mErr := json.MarshalIndent(out, "", "  ")
	if mErr != nil {
		return "", fmt.Errorf("encode report: %w", mErr)
	}
	return string(b), nil
}

func failureReply(out intake.Outcome, err error) string {
	if errors.Is(err, intake.ErrEmptyInput) {
		return out.Status
	}
	return out.Status + "\n\n" + BuildReportReply(out.Report)
}
