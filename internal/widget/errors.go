package widget

import "errors"

var (
	// ErrSessionNotFound возвращается, когда сессия виджета не найдена
	ErrSessionNotFound = errors.New("widget: session not found")

	// ErrSessionExpired возвращается, когда срок жизни сессии истёк
	ErrSessionExpired = errors.New("widget: session expired")

	// ErrAccessDenied возвращается, когда клиент обращается к чужой сессии
	ErrAccessDenied = errors.New("widget: access denied")

	// ErrNoDateSelected возвращается при попытке выбрать слот до выбора даты
	ErrNoDateSelected = errors.New("widget: no date selected")

	// ErrNoServicesSelected возвращается, когда в сессии не выбраны услуги
	ErrNoServicesSelected = errors.New("widget: no services selected")

	// ErrNoSlotPicked возвращается при подтверждении без выбранного слота.
	// Проверка локальная - до внешних вызовов дело не доходит
	ErrNoSlotPicked = errors.New("widget: no slot picked")

	// ErrSlotNotAvailable возвращается при попытке выбрать недоступный слот.
	// Выбор не регистрируется, состояние сессии не меняется
	ErrSlotNotAvailable = errors.New("widget: slot not available")

	// ErrAvailabilityUnknown возвращается, когда последняя загрузка занятости
	// завершилась ошибкой: ни один слот не считается доступным
	ErrAvailabilityUnknown = errors.New("widget: availability unknown")

	// ErrAlreadyConfirmed возвращается при изменении уже подтверждённой сессии
	ErrAlreadyConfirmed = errors.New("widget: session already confirmed")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("widget: invalid input data")
)
