package get_day_occupancy

import "time"

// Request модель запроса занятости дня
type Request struct {
	CompanyID int64     // ID компании
	StaffID   int64     // ID мастера
	Date      time.Time // Дата (без времени)
}

// Response модель ответа с занятостью дня
type Response struct {
	Date      time.Time          // Дата, на которую запрашивалась занятость
	CompanyID int64              // ID компании
	StaffID   int64              // ID мастера
	Records   []OccupancyRecord  // Занятость по записям (стартовый слот + блоки)
	SlotCount map[string]int     // Количество записей на каждый занятый слот (ключ "HH:MM:SS")
}

// OccupancyRecord занятость одной записи: стартовый слот и число
// последовательных занятых слотов
type OccupancyRecord struct {
	SlotTime string // "HH:MM:SS"
	Blocks   int
}
