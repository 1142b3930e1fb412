package telegram

import (
	"fmt"

	"github.com/go-telegram/bot/models"
)

// NoopData is the callback data of buttons that only carry a label, such as
// the page indicator.
const NoopData = "cur"

func InlineButton(text, callbackData string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, CallbackData: callbackData}
}

func URLButton(text, url string) models.InlineKeyboardButton {
	return models.InlineKeyboardButton{Text: text, URL: url}
}

func InlineKeyboard(rows ...[]models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return &models.InlineKeyboardMarkup{InlineKeyboard: rows}
}

func ButtonRow(buttons ...models.InlineKeyboardButton) []models.InlineKeyboardButton {
	return buttons
}

// SingleButton is a keyboard holding one button.
func SingleButton(button models.InlineKeyboardButton) *models.InlineKeyboardMarkup {
	return InlineKeyboard(ButtonRow(button))
}

// ExplorerKeyboard links to a block explorer page.
func ExplorerKeyboard(text, url string) *models.InlineKeyboardMarkup {
	return SingleButton(URLButton("🔎 "+text, url))
}

// ApprovalKeyboard offers Sign and Reject for the pending signature id.
func ApprovalKeyboard(id string) *models.InlineKeyboardMarkup {
	return InlineKeyboard(ButtonRow(
		InlineButton("✍️ Sign", ApprovePrefix+id),
		InlineButton("✖️ Reject", RejectPrefix+id),
	))
}

// ChunkButtons lays buttons out in rows of at most perRow.
func ChunkButtons(buttons []models.InlineKeyboardButton, perRow int) [][]models.InlineKeyboardButton {
	if perRow <= 0 {
		perRow = len(buttons)
	}
	var rows [][]models.InlineKeyboardButton
	for len(buttons) > 0 {
		n := min(perRow, len(buttons))
		rows = append(rows, buttons[:n])
		buttons = buttons[n:]
	}
	return rows
}

// PaginationRow builds the ⬅️ n/total ➡️ row. Arrow buttons carry
// pagePrefix followed by the zero-based target page; arrows past either end
// are omitted.
func PaginationRow(page, totalPages int, pagePrefix string) []models.InlineKeyboardButton {
	row := make([]models.InlineKeyboardButton, 0, 3)
	if page > 0 {
		row = append(row, InlineButton("⬅️", fmt.Sprintf("%s%d", pagePrefix, page-1)))
	}
	row = append(row, InlineButton(fmt.Sprintf("%d/%d", page+1, totalPages), NoopData))
	if page < totalPages-1 {
		row = append(row, InlineButton("➡️", fmt.Sprintf("%s%d", pagePrefix, page+1)))
	}
	return row
}
