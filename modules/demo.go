package modules

import (
	"context"
	"strings"

	"tokenlens/pkg/intake"
)

// DemoPromotion is a typical meme-token pitch used to show what a report
// looks like.
const DemoPromotion = "Community is hyped about this new meme token launching on a bonding curve. " +
	"Early holders expect strong energy, 500 holders milestone soon. " +
	"Team is anonymous but says liquidity will be locked. " +
	"Claims of 1000x are floating around; utility not yet clear."

// ResearchQuestions are the default follow-ups suggested next to every report.
var ResearchQuestions = []string{
	"Is liquidity locked?",
	"Is the team verifiable?",
	"Is there real utility or product?",
	"How concentrated are top holders?",
	"Are contracts verified and audited?",
}

// RunDemo analyzes DemoPromotion.
func RunDemo(ctx context.Context, svc *intake.Service) (string, error) {
	reply, err := RunScan(ctx, svc, DemoPromotion)
	if err != nil {
		return "", err
	}
	return "Demo promotion:\n" + DemoPromotion + "\n\n" + reply, nil
}

// RunQuestions lists the default research questions.
func RunQuestions() (string, error) {
	return "Questions to research before trusting any promotion:\n- " +
		strings.Join(ResearchQuestions, "\n- "), nil
}
