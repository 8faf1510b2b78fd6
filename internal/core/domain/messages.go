package domain

// Fixed user-visible strings. Callers always receive one of these or a
// grounded answer.
const (
	// RefusalMessage is returned when nothing relevant was retrieved.
	RefusalMessage = "Não consigo responder a esta pergunta com as informações disponíveis no documento."

	// FailureMessage is returned when a collaborator failed.
	FailureMessage = "Desculpe, ocorreu um erro ao processar sua consulta."

	// MissingQuestionMessage is returned by front ends when no question was sent.
	MissingQuestionMessage = "Erro: A pergunta não foi fornecida corretamente no corpo da requisição JSON."
)

// GroundingInstruction is the system instruction sent with every completion.
//
//nolint:lll // Instruction text is sent verbatim.
const GroundingInstruction = `Você é um assistente de IA estritamente focado em responder COM BASE NO CONTEXTO fornecido.
--------------------------------------------------
REGRAS DE OURO (Siga rigorosamente):
1. IGNORE todo o seu conhecimento prévio/externo. Use APENAS o texto do contexto.
2. Se a resposta não estiver EXPLICITAMENTE escrita no contexto, diga: 'Não encontrei essa informação nos documentos'.
3. NÃO TENTE COMPLETAR ou enriquecer a resposta com informações que 'fazem sentido' mas não estão no texto.
4. Se o contexto for apenas uma frase, sua resposta deve ser restrita apenas a essa frase.
5. Seja literal. Não infira coisas que não estão escritas.
6. Citar trechos exatos do contexto é encorajado para garantir fidelidade.`

// DefaultGroundedPrompt lays out the user prompt. The first %s is the
// question, the second the retrieved context.
const DefaultGroundedPrompt = "%s\n\nContexto: %s"
