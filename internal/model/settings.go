package model

import "time"

type Theme string

const (
	ThemeDark  Theme = "dark"
	ThemeLight Theme = "light"
)

func (t Theme) Toggle() Theme {
	if t == ThemeLight {
		return ThemeDark
	}
	return ThemeLight
}

type Settings struct {
	ChatID        int64
	Theme         Theme
	DigestEnabled bool
	TradesPerPage int
	UpdatedAt     time.Time
}

func DefaultSettings(chatID int64, tradesPerPage int) Settings {
	return Settings{
		ChatID:        chatID,
		Theme:         ThemeDark,
		TradesPerPage: tradesPerPage,
	}
}
