package ollama

import (
	"fmt"
	"strings"
)

const systemPromptTemplate = `You are a helpful assistant that answers questions based on the provided document context.

Your job is to extract and provide information from the context below to answer the user's question.

STRICT INSTRUCTIONS:
1. READ the context carefully and extract relevant information to answer the question
2. If the context contains information that answers the question, provide a direct answer using that information
3. DO NOT say you cannot answer if the information is present in the context
4. Only respond with "%s" if the question is about completely unrelated topics
5. Use the conversation history to understand context and references (like "that policy", "tell me more", "what about X")
6. If the user refers to something mentioned earlier in the conversation, use that context

Context:
%s`

// buildSystemPrompt assembles the grounding prompt from the retrieved
// context and the refusal text the model should echo for unrelated
// questions.
func buildSystemPrompt(contextText, refusal string) string {
	return fmt.Sprintf(systemPromptTemplate, refusal, contextText)
}

// buildUserPrompt frames the current question with final instructions.
func buildUserPrompt(query string) string {
	var b strings.Builder
	b.WriteString(query)
	b.WriteString("\n\nInstructions: Look through the context and conversation history above to provide a helpful answer. Be direct and specific.")
	return b.String()
}
