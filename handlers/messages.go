package handlers

type messageKey int

const (
	msgInvalidInput messageKey = iota
	msgPhoneFormat
	msgSessionExpired
	msgNoSelection
	msgInvalidDate
	msgUnknownSlot
	msgNotLoaded
	msgNotCancellable
	msgNotFound
	msgOTPSent
	msgLoggedOut
)

var messages = map[messageKey]map[string]string{
	msgInvalidInput: {
		"uz": "Noto'g'ri ma'lumot",
		"ru": "Неверные данные",
		"en": "Invalid input",
	},
	msgPhoneFormat: {
		"uz": "Telefon raqami +998XXXXXXXXX formatida bo'lishi kerak",
		"ru": "Номер телефона должен быть в формате +998XXXXXXXXX",
		"en": "Phone number must be in the format +998XXXXXXXXX",
	},
	msgSessionExpired: {
		"uz": "Iltimos, qaytadan kiring",
		"ru": "Пожалуйста, войдите снова",
		"en": "Please log in again",
	},
	msgNoSelection: {
		"uz": "Vaqtni tanlang",
		"ru": "Выберите время",
		"en": "Select a time slot",
	},
	msgInvalidDate: {
		"uz": "Noto'g'ri sana",
		"ru": "Неверная дата",
		"en": "Invalid date",
	},
	msgUnknownSlot: {
		"uz": "Bunday vaqt mavjud emas",
		"ru": "Такого времени нет",
		"en": "No such time slot",
	},
	msgNotLoaded: {
		"uz": "Avval sanani tanlang",
		"ru": "Сначала выберите дату",
		"en": "Choose a date first",
	},
	msgNotCancellable: {
		"uz": "Bu bronni bekor qilib bo'lmaydi",
		"ru": "Это бронирование нельзя отменить",
		"en": "This booking can no longer be cancelled",
	},
	msgNotFound: {
		"uz": "Topilmadi",
		"ru": "Не найдено",
		"en": "Not found",
	},
	msgOTPSent: {
		"uz": "Tasdiqlash kodi yuborildi",
		"ru": "Код подтверждения отправлен",
		"en": "Verification code sent",
	},
	msgLoggedOut: {
		"uz": "Tizimdan chiqdingiz",
		"ru": "Вы вышли из системы",
		"en": "Logged out",
	},
}

func tr(key messageKey, lang string) string {
	m := messages[key]
	if s, ok := m[lang]; ok {
		return s
	}
	return m["uz"]
}
