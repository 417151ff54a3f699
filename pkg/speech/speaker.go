package speech

import "context"

// Speaker renders a reply and stores the clip.
type Speaker struct {
	synth Synthesizer
	store AudioStore
}

func NewSpeaker(synth Synthesizer, store AudioStore) *Speaker {
	return &Speaker{synth: synth, store: store}
}

// Speak returns the URL of the stored clip.
func (s *Speaker) Speak(ctx context.Context, text, lang string) (string, error) {
	data, err := s.synth.Synthesize(ctx, text, lang)
	if err != nil {
		return "", err
	}
	return s.store.Save(ctx, NewFileName(), data)
}
