package pipeline

import (
	"context"

	"veena-assistant-be/pkg/ai/backend"
	"veena-assistant-be/pkg/language"
	"veena-assistant-be/pkg/rag/knowledge"
	"veena-assistant-be/pkg/rag/profile"
	"veena-assistant-be/pkg/rag/prompt"
	"veena-assistant-be/pkg/rag/response"
)

// generativeTurn runs extraction, retrieval and synthesis on the English
// utterance and brings the reply back into lang.
func (o *Orchestrator) generativeTurn(ctx context.Context, k *knowledge.Knowledge, userID, textEN, lang string, customer profile.Profile) *TurnResult {
	merged := profile.Merge(customer, o.Extractor.Extract(ctx, textEN))

	rc := prompt.ReplyContext{
		Utterance: textEN,
		StepTitle: o.stepTitle(ctx, k, userID),
		Profile:   merged,
		FAQs:      o.retrieve(ctx, k, textEN),
		Lang:      lang,
	}

	var reply string
	if res := o.Generator.Synthesize(ctx, rc); res.OK() {
		reply = res.Value
		if lang != language.English {
			reply = o.translate(ctx, reply, "", lang)
		}
	} else {
		reply = response.Apology(lang)
	}

	return &TurnResult{
		Response:     reply,
		Lang:         lang,
		CustomerData: merged,
		Path:         PathGenerative,
	}
}

func (o *Orchestrator) stepTitle(ctx context.Context, k *knowledge.Knowledge, userID string) string {
	node, err := o.Sessions.Current(ctx, userID, k.Tree)
	if err != nil {
		o.Logger.Warn(moduleName, "Session lookup failed", map[string]interface{}{
			"user_id": userID,
			"error":   err.Error(),
		})
		return ""
	}
	if node == nil {
		return ""
	}
	return node.Title
}

// retrieve returns no context rather than failing the turn.
func (o *Orchestrator) retrieve(ctx context.Context, k *knowledge.Knowledge, textEN string) []string {
	res := backend.Call(ctx, o.Guards.Embedding, "faq_search", func(ctx context.Context) ([]string, error) {
		return k.FAQ.Search(ctx, textEN, o.TopK)
	})
	if !res.OK() {
		o.logFailure("FAQ retrieval failed, answering without context", res.Err)
		return nil
	}
	return res.Value
}
