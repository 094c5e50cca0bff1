package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/autofin/internal/domain"
	"github.com/alexanderramin/autofin/internal/intent"
)

// FormatWelcome renders the banner shown when a chat starts.
func FormatWelcome(mode domain.AgentMode) string {
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(StylePurple.Render("  autofin") + "  " + ModeBadge(mode) + "\n")
	b.WriteString(StyleDim.Render("  ─────────────────────────────") + "\n\n")
	b.WriteString(StyleDim.Render("  Ask about EMIs, claims or insurance coverage.") + "\n")
	b.WriteString(StyleDim.Render("  Verify first with your loan number, phone or name.") + "\n")
	b.WriteString(StyleDim.Render("  Type /help for commands.") + "\n")
	return b.String()
}

type helpCategory struct {
	title    string
	commands [][]string
}

func renderHelpCategory(cat helpCategory) string {
	var b strings.Builder
	b.WriteString("\n " + StyleHeader.Render(strings.ToUpper(cat.title)) + "\n")
	for _, c := range cat.commands {
		fmt.Fprintf(&b, "  %-28s %s\n", StyleGreen.Render(c[0]), StyleDim.Render(c[1]))
	}
	return b.String()
}

// FormatHelp renders the in-chat command and example reference.
func FormatHelp() string {
	categories := []helpCategory{
		{
			title: "Try asking",
			commands: [][]string{
				{"My loan number is LN001", "Verify by loan number"},
				{"I am John Doe", "Verify by name"},
				{"When is my EMI due?", "Payment details"},
				{"I had an accident", "File or check a claim"},
				{"What does my insurance cover?", "Coverage and claim process"},
			},
		},
		{
			title: "Commands",
			commands: [][]string{
				{"/clear", "Start a new, unverified session"},
				{"/whoami", "Show the verified customer"},
				{"/help", "Show this reference"},
				{"/quit", "Leave the chat"},
			},
		},
	}
	keywords := helpCategory{title: "Keywords"}
	for _, in := range []domain.Intent{domain.IntentVerify, domain.IntentPayment, domain.IntentClaim, domain.IntentSOP} {
		keywords.commands = append(keywords.commands, []string{string(in), strings.Join(intent.Keywords(in), ", ")})
	}
	categories = append(categories, keywords)

	var b strings.Builder
	for _, cat := range categories {
		b.WriteString(renderHelpCategory(cat))
	}
	return RenderBox("Help", strings.TrimRight(b.String(), "\n"))
}

// FormatUser renders the customer's side of a turn.
func FormatUser(text string) string {
	return StyleDim.Render("you ›") + " " + StyleFg.Render(text)
}

// FormatReply renders an assistant reply. A leading "<Name> Agent:" label is
// highlighted in the intent's color.
func FormatReply(text string, in domain.Intent) string {
	style := IntentColor(in)
	if label, rest, ok := strings.Cut(text, ":"); ok && strings.HasSuffix(label, "Agent") && !strings.Contains(label, "\n") {
		return style.Bold(true).Render(label+":") + style.Render(rest)
	}
	return style.Render(text)
}

// FormatVerification renders a resolver result.
func FormatVerification(v domain.Verification) string {
	if !v.OK {
		return StyleRed.Render("✖ Not verified") + Dim(": "+v.Reason)
	}
	c := v.Customer
	rows := [][]string{
		{"Customer ID", v.CustomerID},
		{"Name", v.DisplayName()},
		{"Loan", domain.CoalesceStr(c.LoanID, "--")},
		{"Phone", domain.CoalesceStr(c.Phone, "--")},
		{"Vehicle", domain.CoalesceStr(c.Vehicle, "--")},
		{"City", domain.CoalesceStr(c.City, "--")},
	}
	var b strings.Builder
	for _, r := range rows {
		fmt.Fprintf(&b, "%s %s\n", StyleDim.Render(fmt.Sprintf("%-12s", r[0])), StyleFg.Render(r[1]))
	}
	return RenderBox("Verified", strings.TrimRight(b.String(), "\n"))
}

// FormatHistory renders logged interactions as a table in the given order.
func FormatHistory(items []*domain.Interaction, now time.Time) string {
	if len(items) == 0 {
		return Dim("No interactions recorded.")
	}
	headers := []string{"WHEN", "SESSION", "MODE", "INTENT", "USER", "AGENT"}
	rows := make([][]string, 0, len(items))
	for _, in := range items {
		rows = append(rows, []string{
			HumanTimestampFrom(in.CreatedAt, now),
			TruncID(in.SessionID),
			string(in.Mode),
			IntentColor(in.Intent).Render(string(in.Intent)),
			in.UserText,
			in.Response,
		})
	}
	return RenderTable(headers, rows, 48)
}
