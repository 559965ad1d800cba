package dbConverter

import (
	"github.com/KotFed0t/trading_terminal_bot/internal/model"
	"github.com/KotFed0t/trading_terminal_bot/internal/model/dbModel"
)

func ConvertSettings(dbSettings dbModel.ChatSettings) model.Settings {
	theme := model.Theme(dbSettings.Theme)
	if theme != model.ThemeLight {
		theme = model.ThemeDark
	}

	return model.Settings{
		ChatID:        dbSettings.ChatID,
		Theme:         theme,
		DigestEnabled: dbSettings.DigestEnabled,
		TradesPerPage: dbSettings.TradesPerPage,
		UpdatedAt:     dbSettings.UpdatedAt,
	}
}

func ConvertSettingsToDB(settings model.Settings) dbModel.ChatSettings {
	return dbModel.ChatSettings{
		ChatID:        settings.ChatID,
		Theme:         string(settings.Theme),
		DigestEnabled: settings.DigestEnabled,
		TradesPerPage: settings.TradesPerPage,
		UpdatedAt:     settings.UpdatedAt,
	}
}
