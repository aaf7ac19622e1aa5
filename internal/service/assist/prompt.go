package assist

import "fmt"

// Prompt builders for the three oracle capabilities. Length bounds are
// advisory natural language only — the model gets no structured
// parameter — so callers re-clip results where the bound matters.

func RepliesPrompt(text string, maxLen int) string {
	return fmt.Sprintf(
		"Generate 3 short suggested replies (max %d characters each) for this chat message: %q. "+
			"Return one reply per line with no extra commentary.",
		maxLen, text)
}

func RefinePrompt(history, text string) string {
	return fmt.Sprintf(
		"Here's the conversation so far:\n%s\n\nCurrent message: %s\n\n"+
			"Suggest a more polite and comprehensive rephrasing of the current message. "+
			"Return only the rephrased message.",
		history, text)
}

func ReminderPrompt(contextBlock, text string, maxLen int) string {
	return fmt.Sprintf(
		"%s\n\nCurrent message: %s\n\n"+
			"Generate a subtle reminder related to the previous context, if appropriate, "+
			"within %d characters. If no reminder is needed, return an empty string.",
		contextBlock, text, maxLen)
}

// Clip bounds s to max runes.
func Clip(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
