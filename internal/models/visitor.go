package models

import "time"

// DateLayout es el formato del bucket diario de visitas (UTC)
const DateLayout = "2006-01-02"

// Visitor agrupa todas las visitas de una IP + dispositivo en un día
type Visitor struct {
	IP        string    `json:"ip" bson:"ip"`
	Date      string    `json:"date" bson:"date"`
	UserAgent string    `json:"userAgent" bson:"userAgent"`
	Hits      int64     `json:"hits" bson:"hits"`
	LastSeen  time.Time `json:"lastSeen" bson:"lastSeen"`
}

// DailyVisits es una fila del histórico diario
type DailyVisits struct {
	Date   string `json:"date" bson:"_id"`
	Hits   int64  `json:"hits" bson:"hits"`
	Unique int64  `json:"unique" bson:"unique"`
}

// TopProduct es la proyección usada en el ranking de productos más vistos
type TopProduct struct {
	ID           string `json:"id" bson:"id"`
	Name         string `json:"name" bson:"name"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty" bson:"thumbnailUrl,omitempty"`
	Views        int64  `json:"views" bson:"views"`
	CategoryID   string `json:"categoryId" bson:"categoryId"`
}

type VisitStats struct {
	TodayViews     int64 `json:"todayViews"`
	TodayUnique    int64 `json:"todayUnique"`
	TotalViews     int64 `json:"totalViews"`
	TotalUniqueIPs int64 `json:"totalUniqueIps"`
}

// Report es la respuesta de /analytics/report
type Report struct {
	Stats          VisitStats    `json:"stats"`
	TopProducts    []TopProduct  `json:"topProducts"`
	VisitorHistory []DailyVisits `json:"visitorHistory"`
	RecentVisitors []Visitor     `json:"recentVisitors"`
}
