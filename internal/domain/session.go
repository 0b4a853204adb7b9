package domain

// GameMode identifies a kind of practice round
type GameMode string

// ModeDictee is the ghost dictation: the word is only heard, the child types it
const ModeDictee GameMode = "dictee-fantome"

// WordResult is the outcome of one word within a round
type WordResult struct {
	WordID   string
	Correct  bool
	Attempts int
}

// GameSession is a practice round in progress
type GameSession struct {
	Mode         GameMode
	Words        []Word
	CurrentIndex int
	Stars        int
	Completed    bool
	Results      []WordResult
}

// NewGameSession starts a round over the given words
func NewGameSession(mode GameMode, words []Word) *GameSession {
	return &GameSession{
		Mode:    mode,
		Words:   words,
		Results: make([]WordResult, 0, len(words)),
	}
}

// Current returns the word being asked, false once the round is over
func (s *GameSession) Current() (Word, bool) {
	if s.Completed || s.CurrentIndex >= len(s.Words) {
		return Word{}, false
	}
	return s.Words[s.CurrentIndex], true
}

// Answer records the result for the current word and moves to the next one
func (s *GameSession) Answer(correct bool) {
	word, ok := s.Current()
	if !ok {
		return
	}
	s.Results = append(s.Results, WordResult{WordID: word.ID, Correct: correct, Attempts: 1})
	if correct {
		s.Stars++
	}
	s.CurrentIndex++
	if s.CurrentIndex >= len(s.Words) {
		s.Completed = true
	}
}

// Perfect reports whether every word of a finished round was right
func (s *GameSession) Perfect() bool {
	return s.Completed && s.Stars == len(s.Words)
}
