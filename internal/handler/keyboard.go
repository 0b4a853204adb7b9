package handler

import (
	"fmt"
	"strings"
	"unicode"

	"dictee/internal/domain"
	"dictee/internal/service"

	"golang.org/x/text/unicode/norm"
	tele "gopkg.in/telebot.v3"
)

// AccentCharacters are offered on the keyboard under every dictation prompt
var AccentCharacters = []string{
	"é", "è", "ê", "ë",
	"à", "â", "ç",
	"î", "ï", "ô",
	"û", "ù",
}

const accentsPerRow = 4

// Inline keyboard buttons
var (
	btnPractice = tele.Btn{
		Unique: "practice",
		Text:   "🎧 Dictée",
	}
	btnStats = tele.Btn{
		Unique: "stats",
		Text:   "⭐ Mes étoiles",
	}
	btnReset = tele.Btn{
		Unique: "reset",
		Text:   "🧹 Recommencer à zéro",
	}
	btnResetConfirm = tele.Btn{
		Unique: "reset_yes",
		Text:   "✅ Oui, tout effacer",
	}
	btnResetCancel = tele.Btn{
		Unique: "reset_no",
		Text:   "❌ Non",
	}
	btnRefresh = tele.Btn{
		Unique: "refresh",
		Text:   "🔄 Nouveaux mots",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Menu",
	}
	btnRepeat = tele.Btn{
		Unique: "repeat",
		Text:   "🔊 Répéter",
	}
	btnBackspace = tele.Btn{
		Unique: "backspace",
		Text:   "⌫",
	}
	btnSubmit = tele.Btn{
		Unique: "submit",
		Text:   "✅ Valider",
	}
	btnStop = tele.Btn{
		Unique: "stop",
		Text:   "⏹ Arrêter",
	}
	btnAccent = tele.Btn{
		Unique: "accent",
	}
)

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	menu := &tele.ReplyMarkup{}
	menu.Inline(
		menu.Row(btnPractice),
		menu.Row(btnStats, btnRefresh),
		menu.Row(btnReset),
	)
	return menu
}

// accentKeyboardMarkup returns the keyboard shown under a dictation prompt
func accentKeyboardMarkup() *tele.ReplyMarkup {
	markup := &tele.ReplyMarkup{}
	rows := []tele.Row{}

	row := tele.Row{}
	for _, char := range AccentCharacters {
		row = append(row, markup.Data(char, btnAccent.Unique, char))
		if len(row) == accentsPerRow {
			rows = append(rows, row)
			row = tele.Row{}
		}
	}
	if len(row) > 0 {
		rows = append(rows, row)
	}

	rows = append(rows,
		markup.Row(btnBackspace, btnSubmit),
		markup.Row(btnRepeat, btnStop),
	)
	markup.Inline(rows...)
	return markup
}

// normalizeAnswer makes answers comparable: composed accents, lower case, single spaces
func normalizeAnswer(s string) string {
	s = norm.NFC.String(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '’', 'ʼ':
			return '\''
		}
		return unicode.ToLower(r)
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// checkAnswer reports whether answer spells word
func checkAnswer(word domain.Word, answer string) bool {
	return normalizeAnswer(answer) != "" && normalizeAnswer(answer) == normalizeAnswer(word.Text)
}

// starCounter renders earned stars, e.g. "⭐ 3/10"
func starCounter(stars, total int) string {
	if total > 0 {
		return fmt.Sprintf("⭐ %d/%d", stars, total)
	}
	return fmt.Sprintf("⭐ %d", stars)
}

// promptText renders the dictation prompt for the current word
func promptText(session *domain.GameSession, draft string) string {
	text := fmt.Sprintf("🎧 Mot %d/%d   %s\n\nÉcris le mot que tu entends.",
		session.CurrentIndex+1, len(session.Words), starCounter(session.Stars, len(session.Words)))
	if draft != "" {
		text += "\n\n✏️ " + draft
	}
	return text
}

// roundSummary renders the end of a round, with a celebration for good results
func roundSummary(session *domain.GameSession, mastered, total int) string {
	var b strings.Builder
	b.WriteString("🏁 Dictée terminée !\n\n")
	b.WriteString(starCounter(session.Stars, len(session.Words)))
	b.WriteString("\n")

	switch {
	case session.Perfect():
		b.WriteString("\n🎉🎊✨ PARFAIT ! ✨🎊🎉\n")
	case session.Stars*2 >= len(session.Words):
		b.WriteString("\n🎉 Super travail !\n")
	default:
		b.WriteString("\n💪 Continue, tu progresses !\n")
	}

	if total > 0 {
		fmt.Fprintf(&b, "\n🏆 Mots maîtrisés : %d/%d", mastered, total)
	}
	return b.String()
}

// statsText renders a progress report
func statsText(report service.Report) string {
	text := fmt.Sprintf(
		"⭐ Tes progrès\n\n📚 Mots de la liste : %d\n✍️ Mots déjà essayés : %d\n🏆 Mots maîtrisés : %d\n🎯 Bonnes réponses : %d/%d (%d%%)",
		report.TotalWords, report.Practiced, report.Mastered,
		report.TotalCorrect, report.TotalAttempts, report.Accuracy(),
	)
	if !report.LastPracticed.IsZero() {
		text += "\n📅 Dernière dictée : " + report.LastPracticed.Format("02/01/2006")
	}
	return text
}

// trimLastRune removes the last character typed with the accent keyboard
func trimLastRune(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}
