package chat

import (
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
)

type style func(any) string

// Console renders messages as plain terminal text.
type Console struct {
	out io.Writer

	user   style
	bot    style
	title  style
	faint  style
	accent style
}

// NewConsole writes to out, using ANSI styles when color is true.
func NewConsole(out io.Writer, color bool) *Console {
	if !color {
		plain := func(v any) string { return fmt.Sprint(v) }
		return &Console{out: out, user: plain, bot: plain, title: plain, faint: plain, accent: plain}
	}

	return &Console{
		out:    out,
		user:   promptui.Styler(promptui.FGCyan, promptui.FGBold),
		bot:    promptui.Styler(promptui.FGGreen, promptui.FGBold),
		title:  promptui.Styler(promptui.FGBold),
		faint:  promptui.Styler(promptui.FGFaint),
		accent: promptui.Styler(promptui.FGYellow),
	}
}

func (c *Console) Present(msg Message) {
	var b strings.Builder

	label := c.bot("bot>")
	if msg.Role == RoleUser {
		label = c.user("you>")
	}
	fmt.Fprintf(&b, "%s %s\n", label, msg.Text)

	for _, card := range msg.Cards {
		c.writeCard(&b, card)
	}

	_, _ = io.WriteString(c.out, b.String())
}

func (c *Console) writeCard(b *strings.Builder, card Card) {
	fmt.Fprintf(b, "\n  %s\n", c.title(card.Rank+". "+card.Title))
	fmt.Fprintf(b, "     %s | %s | %s\n", card.Company, card.Location, c.accent(card.Distance))

	for _, r := range card.Reasons {
		fmt.Fprintf(b, "     - %s\n", r)
	}

	if card.URL != "" {
		fmt.Fprintf(b, "     %s: %s\n", card.LinkText, card.URL)
	} else {
		fmt.Fprintf(b, "     %s\n", c.faint(card.LinkText))
	}
}
