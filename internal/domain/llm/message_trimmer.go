package llm

import (
	"encoding/json"
	"unicode/utf8"
)

const (
	// DefaultContextLength is used when model context length is unknown.
	DefaultContextLength = 128000

	// TokenEstimateRatio estimates ~4 characters per token (conservative estimate).
	TokenEstimateRatio = 4

	// MinMessagesToKeep ensures we always keep system prompt + the latest user message.
	MinMessagesToKeep = 2

	// SafetyMarginRatio reserves space for the response and overhead (20% margin).
	SafetyMarginRatio = 0.80
)

// EstimateTokenCount provides a rough estimate of token count for a message.
// Uses character count / 4 as a conservative approximation.
func EstimateTokenCount(content interface{}) int {
	var text string
	switch v := content.(type) {
	case string:
		text = v
	case nil:
		return 0
	default:
		bytes, _ := json.Marshal(v)
		text = string(bytes)
	}
	return utf8.RuneCountInString(text) / TokenEstimateRatio
}

// EstimateMessagesTokenCount estimates total tokens across all messages.
func EstimateMessagesTokenCount(messages []ChatMessage) int {
	total := 0
	for _, msg := range messages {
		// Add overhead for role and structure (~10 tokens per message)
		total += 10
		total += EstimateTokenCount(msg.Content)
	}
	return total
}

// TrimMessagesResult contains the result of trimming messages.
type TrimMessagesResult struct {
	Messages        []ChatMessage
	TrimmedCount    int
	EstimatedTokens int
}

// TrimMessagesToFitContext drops the oldest conversation turns until the
// history fits within the context length limit.
//
// A leading system prompt and the final message (the user input that triggered
// the turn) are never removed. Removal walks oldest-first over everything in
// between, so the model keeps the freshest context when the window is tight.
func TrimMessagesToFitContext(messages []ChatMessage, contextLength int) TrimMessagesResult {
	if contextLength <= 0 {
		contextLength = DefaultContextLength
	}

	maxTokens := int(float64(contextLength) * SafetyMarginRatio)

	currentTokens := EstimateMessagesTokenCount(messages)
	if currentTokens <= maxTokens {
		return TrimMessagesResult{
			Messages:        messages,
			TrimmedCount:    0,
			EstimatedTokens: currentTokens,
		}
	}

	result := make([]ChatMessage, len(messages))
	copy(result, messages)
	trimmedCount := 0

	first := 0
	if len(result) > 0 && result[0].Role == "system" {
		first = 1
	}

	for currentTokens > maxTokens && len(result) > MinMessagesToKeep {
		// Never drop the final message of the history.
		if first >= len(result)-1 {
			break
		}

		result = append(result[:first], result[first+1:]...)
		trimmedCount++
		currentTokens = EstimateMessagesTokenCount(result)
	}

	return TrimMessagesResult{
		Messages:        result,
		TrimmedCount:    trimmedCount,
		EstimatedTokens: currentTokens,
	}
}
