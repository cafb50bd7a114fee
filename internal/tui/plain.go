package tui

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vistula/vistulabot/internal/conversation"
	"github.com/vistula/vistulabot/internal/models"
)

// quitCommands end a line-mode session
var quitCommands = map[string]bool{"/quit": true, "/exit": true}

// RunPlain drives the controller from a line-oriented reader, for pipes and
// terminals where the full-screen surface is unavailable. Each line is typed
// into the input and committed; a bare number picks the matching quick reply
// while quick replies are offered. Turns are resolved one at a time.
func RunPlain(ctx context.Context, controller *conversation.Controller, in io.Reader, out io.Writer) error {
	fmt.Fprintf(out, "%s\n%s\n", models.Title, models.Subtitle)
	printQuickReplies(out, controller)

	printed := controller.Len()
	scanner := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}
		line := scanner.Text()
		if quitCommands[strings.TrimSpace(line)] {
			return nil
		}

		turn, ok := submitLine(controller, line)
		if !ok {
			continue
		}
		controller.Resolve(ctx, turn)

		msgs := controller.Messages()
		for _, msg := range msgs[printed:] {
			if !msg.IsUser() {
				fmt.Fprintf(out, "%s: %s\n", models.AssistantName, msg.Text)
			}
		}
		printed = len(msgs)
	}
}

func submitLine(controller *conversation.Controller, line string) (*conversation.Turn, bool) {
	if controller.QuickRepliesVisible() {
		replies := controller.QuickReplies()
		if n, err := strconv.Atoi(strings.TrimSpace(line)); err == nil && n >= 1 && n <= len(replies) {
			return controller.Submit(replies[n-1])
		}
	}
	controller.OnInputChange(line)
	return controller.OnKeyCommit(models.CommitKey)
}

func printQuickReplies(out io.Writer, controller *conversation.Controller) {
	if !controller.QuickRepliesVisible() {
		return
	}
	for i, q := range controller.QuickReplies() {
		fmt.Fprintf(out, "  [%d] %s\n", i+1, q)
	}
}
