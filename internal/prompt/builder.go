// Package prompt assembles the layered text protocol spoken across the
// inference boundary: a query prompt carrying task and history context and a
// referring prompt that grounds the model's choice to a labeled element.
package prompt

import (
	"fmt"
	"strings"
)

// Bundle is one turn's rendered prompt, regenerated every turn.
type Bundle struct {
	Query     string
	Referring string
}

// Part names accepted by UpdatePart.
const (
	PartSystem      = "system_prompt"
	PartActionSpace = "action_space"
	PartQuestion    = "question_description"
	PartReferring   = "referring_description"
	PartElement     = "element_format"
	PartAction      = "action_format"
	PartValue       = "value_format"
)

const noChoices = "No choices available"

// Builder renders prompt bundles from named text parts. Parts may be
// overridden individually; rendering is deterministic for identical inputs.
type Builder struct {
	parts map[string]string
}

func NewBuilder() *Builder {
	return &Builder{parts: defaultParts()}
}

func defaultParts() map[string]string {
	return map[string]string{
		PartSystem: `You are assisting humans in web navigation tasks step by step. At each stage, you can see the webpage by a screenshot and know the previous actions that have been executed for this task. You need to decide on the next action to take.`,

		PartActionSpace: `Here are the descriptions of all allowed actions:

No Value Operations:
- CLICK: Click on a webpage element using the mouse.
- HOVER: Move the mouse over a webpage element without clicking.
- PRESS ENTER: Press the Enter key to submit or confirm an input.
- SCROLL UP: Scroll up on the page.
- SCROLL DOWN: Scroll down on the page.
- PRESS HOME: Go to the top of the page.
- PRESS END: Go to the bottom of the page.
- PRESS PAGEUP: Scroll up by one page.
- PRESS PAGEDOWN: Scroll down by one page.
- CLOSE TAB: Close the current tab.
- NEW TAB: Open a new tab.
- GO BACK: Navigate to the previous page.
- GO FORWARD: Navigate to the next page.
- TERMINATE: End the task if completed or if the task is risky.
- NONE: Skip an action if unnecessary at this stage.

With Value Operations:
- SELECT: Choose an option from a dropdown menu.
- TYPE: Enter text into a text box.
- GOTO: Navigate to a specific URL.
- SAY: Output information to the user.
- MEMORIZE: Store content for reference.`,

		PartQuestion: `The screenshot below shows the webpage. Think through each step before deciding on the next action. Clearly outline the element to interact with, its location, and the action to perform. Follow these rules:
1. Issue only one valid action per step.
2. Handle dropdowns directly; options will be listed.
3. Avoid account creation, login, or final submissions.
4. Terminate if task is complete or requires potentially harmful actions.
5. Interact with floating banners, closing them if they cover content.
6. Type or select inputs directly, bypassing clicks when possible.
7. Avoid repeating the same failed action consecutively.
8. Ignore minor banners (e.g., cookie policies).
9. Press ENTER after typing in search or text inputs.
10. Choose the least obstructed clickable button if options are identical.`,

		PartReferring: `(Reiteration)
Reiterate your next target element, its location, and the corresponding action.

(Multi-choice Question)
Below is a multi-choice question with elements arranged by their height on the page, from top to bottom and left to right. From the screenshot, locate and match each choice with its corresponding element by examining the content and HTML details. Then choose the matching element based on your target action.`,

		PartElement: `(Final Answer)
Conclude with the following format for the target element:

ELEMENT: The uppercase letter representing your choice.`,

		PartAction: `ACTION: Choose an action from allowed actions.`,

		PartValue: `VALUE: Provide additional input as needed based on ACTION (if not needed, write "None")`,
	}
}

// Build renders the bundle for one turn. Choices are expected pre-labeled
// with successive uppercase letters, top-to-bottom then left-to-right; the
// reply grammar answers with one of those letters, so the given order must
// match the order the caller resolves against.
func (b *Builder) Build(task string, previous []string, choices []string) Bundle {
	prev := "None"
	if len(previous) > 0 {
		prev = strings.Join(previous, "\n")
	}

	query := fmt.Sprintf("%s\n%s\nTask: %s\nPrevious Actions:\n%s\n%s",
		b.parts[PartSystem], b.parts[PartActionSpace], task, prev, b.parts[PartQuestion])

	choicesStr := noChoices
	if len(choices) > 0 {
		choicesStr = strings.Join(choices, "\n")
	}

	referring := fmt.Sprintf("%s\nChoices:\n%s\n\n%s\n%s\n%s",
		b.parts[PartReferring], choicesStr,
		b.parts[PartElement], b.parts[PartAction], b.parts[PartValue])

	return Bundle{Query: query, Referring: referring}
}

// UpdatePart overrides a named prompt part. It returns false for an unknown
// part name, leaving the builder untouched.
func (b *Builder) UpdatePart(name, text string) bool {
	if _, ok := b.parts[name]; !ok {
		return false
	}
	b.parts[name] = text
	return true
}

// LabelChoices renders element descriptors as lettered multiple-choice
// lines, in the order given.
func LabelChoices(descriptors []string) []string {
	out := make([]string, len(descriptors))
	for i, d := range descriptors {
		out[i] = fmt.Sprintf("%c. %s", 'A'+i, d)
	}
	return out
}
