package pipeline

import (
	"veena-assistant-be/pkg/rag/profile"
	"veena-assistant-be/pkg/rag/rebuttal"
	"veena-assistant-be/pkg/rag/response"
)

// rebuttalTurn answers a known objection with its scripted reply. Neither
// extraction nor retrieval runs, so the customer data passes through.
func (o *Orchestrator) rebuttalTurn(rule rebuttal.Rule, lang string, customer profile.Profile) *TurnResult {
	reply := rule.Reply.Resolve(lang)
	if reply == "" {
		o.Logger.Warn(moduleName, "Rebuttal has no text for language", map[string]interface{}{
			"objection": rule.Objection,
			"lang":      lang,
		})
		reply = response.Apology(lang)
	}

	o.Logger.Debug(moduleName, "Rebuttal matched", map[string]interface{}{
		"objection": rule.Objection,
		"lang":      lang,
	})

	return &TurnResult{
		Response:     reply,
		Lang:         lang,
		CustomerData: customer,
		Path:         PathRebuttal,
	}
}
