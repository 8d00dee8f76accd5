package ui

// Localization manages UI text translations
type Localization struct {
	currentLanguage string
	texts           map[string]map[string]string
}

// Text keys for localization
const (
	KeyAppTitle   = "app_title"
	KeyClose      = "close"
	KeyDelete     = "delete"
	KeyNoImages   = "no_images"
	KeyLoading    = "loading"
	KeyLoadFailed = "load_failed"

	KeySettings         = "settings"
	KeyGalleryDirectory = "gallery_directory"
	KeyPreloadCount     = "preload_count"
	KeyMaxParallel      = "max_parallel"
	KeyShowDelete       = "show_delete"
	KeyLanguage         = "language"
	KeySave             = "save"
	KeyCancel           = "cancel"
	KeyBrowse           = "browse"
	KeySettingsSaved    = "settings_saved"
)

// NewLocalization creates a new localization manager
func NewLocalization() *Localization {
	l := &Localization{
		currentLanguage: "en",
		texts:           make(map[string]map[string]string),
	}

	l.initializeTexts()
	return l
}

// SetLanguage sets the current language
func (l *Localization) SetLanguage(lang string) {
	if lang == "system" {
		// Use system locale - simplified to English for now
		lang = "en"
	}

	if _, exists := l.texts[lang]; exists {
		l.currentLanguage = lang
	}
}

// GetText returns localized text for the given key
func (l *Localization) GetText(key string) string {
	if texts, exists := l.texts[l.currentLanguage]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Fallback to English
	if texts, exists := l.texts["en"]; exists {
		if text, found := texts[key]; found {
			return text
		}
	}

	// Final fallback - return key itself
	return key
}

// GetCurrentLanguage returns the current language code
func (l *Localization) GetCurrentLanguage() string {
	return l.currentLanguage
}

// GetAvailableLanguages returns map of available languages with their display names
func (l *Localization) GetAvailableLanguages() map[string]string {
	return map[string]string{
		"en": "English",
		"ru": "Русский",
		"pt": "Português",
	}
}

// initializeTexts initializes all text translations
func (l *Localization) initializeTexts() {
	l.texts["en"] = map[string]string{
		KeyAppTitle:         "Lightbox",
		KeyClose:            "Close",
		KeyDelete:           "Delete",
		KeyNoImages:         "No images",
		KeyLoading:          "Loading...",
		KeyLoadFailed:       "Could not load image",
		KeySettings:         "Settings",
		KeyGalleryDirectory: "Gallery Directory",
		KeyPreloadCount:     "Preload Pages (0 = all)",
		KeyMaxParallel:      "Max Parallel Fetches",
		KeyShowDelete:       "Show delete button",
		KeyLanguage:         "Language",
		KeySave:             "Save",
		KeyCancel:           "Cancel",
		KeyBrowse:           "Browse",
		KeySettingsSaved:    "Settings saved successfully!",
	}

	l.texts["ru"] = map[string]string{
		KeyAppTitle:         "Лайтбокс",
		KeyClose:            "Закрыть",
		KeyDelete:           "Удалить",
		KeyNoImages:         "Нет изображений",
		KeyLoading:          "Загрузка...",
		KeyLoadFailed:       "Не удалось загрузить изображение",
		KeySettings:         "Настройки",
		KeyGalleryDirectory: "Папка галереи",
		KeyPreloadCount:     "Предзагрузка страниц (0 = все)",
		KeyMaxParallel:      "Макс. параллельных загрузок",
		KeyShowDelete:       "Показывать кнопку удаления",
		KeyLanguage:         "Язык",
		KeySave:             "Сохранить",
		KeyCancel:           "Отмена",
		KeyBrowse:           "Обзор",
		KeySettingsSaved:    "Настройки успешно сохранены!",
	}

	l.texts["pt"] = map[string]string{
		KeyAppTitle:         "Lightbox",
		KeyClose:            "Fechar",
		KeyDelete:           "Excluir",
		KeyNoImages:         "Nenhuma imagem",
		KeyLoading:          "Carregando...",
		KeyLoadFailed:       "Não foi possível carregar a imagem",
		KeySettings:         "Configurações",
		KeyGalleryDirectory: "Diretório da Galeria",
		KeyPreloadCount:     "Pré-carregar Páginas (0 = todas)",
		KeyMaxParallel:      "Carregamentos paralelos",
		KeyShowDelete:       "Mostrar botão excluir",
		KeyLanguage:         "Idioma",
		KeySave:             "Salvar",
		KeyCancel:           "Cancelar",
		KeyBrowse:           "Navegar",
		KeySettingsSaved:    "Configurações salvas com sucesso!",
	}
}
