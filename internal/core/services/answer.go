package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/custodia-labs/groundrag/internal/core/domain"
	"github.com/custodia-labs/groundrag/internal/core/ports/driven"
	"github.com/custodia-labs/groundrag/internal/core/ports/driving"
	"github.com/custodia-labs/groundrag/internal/logger"
)

// Ensure AnswerService implements the interface.
var _ driving.AskService = (*AnswerService)(nil)

// contextSeparator joins retrieved segments in the prompt.
const contextSeparator = "\n\n"

// AnswerService answers questions strictly from retrieved context.
// It refuses without calling the completion service when retrieval is empty.
type AnswerService struct {
	retriever  *Retriever
	completion driven.CompletionService
	memory     driven.ConversationMemory
	prompts    driven.PromptStore
	minScore   float64
	topK       int
}

// NewAnswerService creates an answer service using the retrieval bounds of rag.
func NewAnswerService(
	retriever *Retriever,
	completion driven.CompletionService,
	memory driven.ConversationMemory,
	rag domain.RAGSettings,
) *AnswerService {
	return &AnswerService{
		retriever:  retriever,
		completion: completion,
		memory:     memory,
		minScore:   rag.MinScore,
		topK:       rag.MaxResults,
	}
}

// SetPromptStore sets where the user-prompt template is loaded from.
func (s *AnswerService) SetPromptStore(store driven.PromptStore) {
	s.prompts = store
}

// Ask answers question for session.
// Memory is appended only after a successful completion. Cancellation is
// returned as ctx.Err() and leaves memory untouched.
func (s *AnswerService) Ask(ctx context.Context, session, question string) (domain.Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Answer{}, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}
	if session == "" {
		session = domain.DefaultSession
	}

	logger.Section("Query")
	logger.Debug("Session: %s", session)
	logger.Debug("Question: %q", question)

	release, err := s.memory.Acquire(ctx, session)
	if err != nil {
		return domain.Answer{}, err
	}
	defer release()

	result, err := s.retriever.Retrieve(ctx, question, s.minScore, s.topK)
	if err != nil {
		return s.fail(ctx, "retrieval", err, nil)
	}
	if result.Empty() {
		logger.Debug("No segment cleared the threshold, refusing")
		return domain.Answer{Text: domain.RefusalMessage, Outcome: domain.OutcomeRefused}, nil
	}

	prompt := fmt.Sprintf(s.template(), question, strings.Join(result.Texts(), contextSeparator))
	history := s.memory.Window(session)
	logger.Debug("Prompt: %d runes, history: %d turns", len([]rune(prompt)), len(history))

	response, err := s.completion.Complete(ctx, domain.GroundingInstruction, history, prompt)
	if err != nil {
		return s.fail(ctx, "completion", err, result)
	}
	if ctx.Err() != nil {
		return domain.Answer{}, ctx.Err()
	}

	s.memory.Append(session,
		domain.ConversationTurn{Role: domain.RoleUser, Text: question},
		domain.ConversationTurn{Role: domain.RoleAssistant, Text: response},
	)

	return domain.Answer{Text: response, Outcome: domain.OutcomeGrounded, Sources: result}, nil
}

// fail maps a collaborator failure to the apology, or to ctx.Err() when the
// caller gave up.
func (s *AnswerService) fail(ctx context.Context, step string, err error, sources domain.RetrievalResult) (domain.Answer, error) {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return domain.Answer{}, ctxErr
	}
	if errors.Is(err, context.Canceled) {
		return domain.Answer{}, err
	}
	logger.Error("%s failed: %v", step, err)
	return domain.Answer{Text: domain.FailureMessage, Outcome: domain.OutcomeFailed, Sources: sources}, nil
}

func (s *AnswerService) template() string {
	if s.prompts == nil {
		return domain.DefaultGroundedPrompt
	}
	tmpl, err := s.prompts.Load(driven.PromptGroundedQuestion)
	if err != nil || !usableTemplate(tmpl) {
		logger.Warn("Unusable %s prompt, using default", driven.PromptGroundedQuestion)
		return domain.DefaultGroundedPrompt
	}
	return tmpl
}

// usableTemplate reports whether tmpl renders the question and the context
// once each and has no other verbs.
func usableTemplate(tmpl string) bool {
	const question, passages = "\x00question\x00", "\x00context\x00"
	out := fmt.Sprintf(tmpl, question, passages)
	return strings.Count(out, question) == 1 &&
		strings.Count(out, passages) == 1 &&
		!strings.Contains(out, "%!")
}
