package ui

import (
	tgbotapi "github.com/PaulSonOfLars/gotgbot/v2"
)

// YesNoKeyboard creates an inline keyboard with Yes/No buttons.
func YesNoKeyboard(yesText, noText string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: yesText, CallbackData: "fl:yes"},
				{Text: noText, CallbackData: "fl:no"},
			},
		},
	}
}

// SkipKeyboard creates an inline keyboard with a single skip button.
func SkipKeyboard(text string) tgbotapi.InlineKeyboardMarkup {
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: text, CallbackData: "fl:skip"},
			},
		},
	}
}

// RemoveKeyboard creates a remove keyboard markup to hide custom keyboards.
func RemoveKeyboard() tgbotapi.ReplyKeyboardRemove {
	return tgbotapi.ReplyKeyboardRemove{
		RemoveKeyboard: true,
	}
}

// SwitchInlineButton creates an inline button that opens an inline query in
// the current chat.
func SwitchInlineButton(text, query string) tgbotapi.InlineKeyboardMarkup {
	q := query
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{
			{
				{Text: text, SwitchInlineQueryCurrentChat: &q},
			},
		},
	}
}

// SelectableItem represents an item that can be selected from a list.
type SelectableItem struct {
	ID   string
	Text string
}

// SelectionKeyboard creates an inline keyboard for selecting items.
// Each item gets its own row with callback data in format "fl:select:ID".
func SelectionKeyboard(items []SelectableItem) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, len(items))
	for i, item := range items {
		rows[i] = []tgbotapi.InlineKeyboardButton{
			{Text: item.Text, CallbackData: "fl:select:" + item.ID},
		}
	}
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// MenuKeyboard creates an inline keyboard laid out from rows of items, with
// callback data in format "fl:menu:ID".
func MenuKeyboard(buttons [][]SelectableItem) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, len(buttons))
	for i, row := range buttons {
		rowButtons := make([]tgbotapi.InlineKeyboardButton, len(row))
		for j, item := range row {
			rowButtons[j] = tgbotapi.InlineKeyboardButton{
				Text:         item.Text,
				CallbackData: "fl:menu:" + item.ID,
			}
		}
		rows[i] = rowButtons
	}
	return tgbotapi.InlineKeyboardMarkup{
		InlineKeyboard: rows,
	}
}

// ReplyKeyboard creates a persistent reply keyboard from rows of labels.
func ReplyKeyboard(rows [][]string) tgbotapi.ReplyKeyboardMarkup {
	keyboard := make([][]tgbotapi.KeyboardButton, len(rows))
	for i, row := range rows {
		buttons := make([]tgbotapi.KeyboardButton, len(row))
		for j, label := range row {
			buttons[j] = tgbotapi.KeyboardButton{Text: label}
		}
		keyboard[i] = buttons
	}
	return tgbotapi.ReplyKeyboardMarkup{
		Keyboard:       keyboard,
		ResizeKeyboard: true,
	}
}
