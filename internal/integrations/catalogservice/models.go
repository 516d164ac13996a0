package catalogservice

// Company модель компании (салона) из CatalogService
type Company struct {
	ID           int64        `json:"id"`
	Name         string       `json:"name"`
	Timezone     string       `json:"timezone"`
	ManagerIDs   []int64      `json:"manager_ids"`
	Staff        []Staff      `json:"staff"`
	WorkingHours WeekSchedule `json:"working_hours"`
}

// Staff модель мастера компании
type Staff struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	ServiceIDs []int64 `json:"service_ids"` // услуги, которые выполняет мастер
	IsActive   bool    `json:"is_active"`
}

// WeekSchedule расписание работы компании по дням недели
type WeekSchedule struct {
	Monday    DaySchedule `json:"monday"`
	Tuesday   DaySchedule `json:"tuesday"`
	Wednesday DaySchedule `json:"wednesday"`
	Thursday  DaySchedule `json:"thursday"`
	Friday    DaySchedule `json:"friday"`
	Saturday  DaySchedule `json:"saturday"`
	Sunday    DaySchedule `json:"sunday"`
}

// DaySchedule расписание работы на один день недели
type DaySchedule struct {
	IsOpen    bool    `json:"is_open"`
	OpenTime  *string `json:"open_time,omitempty"`  // "09:00"
	CloseTime *string `json:"close_time,omitempty"` // "21:00"
}

// Service модель услуги из каталога
type Service struct {
	ID              int64    `json:"id"`
	CompanyID       int64    `json:"company_id"`
	Name            string   `json:"name"`
	DurationMinutes int      `json:"duration_minutes"`
	Price           *float64 `json:"price,omitempty"`
	StaffIDs        []int64  `json:"staff_ids"` // мастера, выполняющие услугу
}

// ServiceDuration длительность одной услуги, ответ batch-запроса длительностей
type ServiceDuration struct {
	ID              int64 `json:"id"`
	DurationMinutes int   `json:"duration_minutes"`
}

// ErrorResponse модель ошибки от CatalogService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
