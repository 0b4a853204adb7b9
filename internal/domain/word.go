package domain

// Word is a single dictation word as published in the word sheet
type Word struct {
	ID   string `json:"id"`
	Text string `json:"text"`
}

// WordListData is the persisted snapshot of the last fetched word list
type WordListData struct {
	Words     []Word `json:"words"`
	CreatedAt int64  `json:"createdAt"`
	UpdatedAt int64  `json:"updatedAt"`
}
