package response

var apologies = map[string]string{
	"en": "I'm sorry, I couldn't process that right now. Could you please say it again?",
	"hi": "माफ़ कीजिए, मैं अभी इसे समझ नहीं पाई। क्या आप कृपया फिर से कहेंगे?",
	"mr": "माफ करा, मला आत्ता हे समजले नाही. कृपया पुन्हा सांगाल का?",
	"gu": "માફ કરશો, હું અત્યારે આ સમજી શકી નહીં. કૃપા કરીને ફરીથી કહેશો?",
}

// Apology is the fixed fallback reply in lang, English when unknown.
func Apology(lang string) string {
	if msg, ok := apologies[lang]; ok {
		return msg
	}
	return apologies["en"]
}
