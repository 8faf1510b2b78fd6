package domain

// Role identifies who produced a conversation turn.
type Role string

// Conversation roles.
const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ConversationTurn is one entry in a session's memory window.
type ConversationTurn struct {
	// Role is user or assistant.
	Role Role

	// Text is the message content.
	Text string

	// Seq is the per-session sequence index, assigned on append.
	Seq uint64
}

// DefaultSession is used by front ends that do not carry a session.
const DefaultSession = "default"

// AnswerOutcome records which terminal state a query reached.
type AnswerOutcome string

// Answer outcomes.
const (
	// OutcomeGrounded means the completion service produced the answer.
	OutcomeGrounded AnswerOutcome = "grounded"

	// OutcomeRefused means retrieval was empty and the canonical refusal was returned.
	OutcomeRefused AnswerOutcome = "refused"

	// OutcomeFailed means a collaborator failed and the apology was returned.
	OutcomeFailed AnswerOutcome = "failed"
)

// Answer is the text returned to a caller together with how it was produced.
type Answer struct {
	// Text is the grounded answer, the refusal or the apology.
	Text string

	// Outcome is the terminal state.
	Outcome AnswerOutcome

	// Sources are the retrieved segments used as context (empty unless grounded or failed late).
	Sources RetrievalResult
}
