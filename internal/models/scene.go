package models

// Time-of-day buckets carried over from the storyboard metadata. The values
// are the Korean labels the upstream app stores verbatim.
const (
	TimeOfDayDay         = "낮"
	TimeOfDayMorning     = "오전"
	TimeOfDayAfternoon   = "오후"
	TimeOfDayNight       = "밤"
	TimeOfDayEvening     = "저녁"
	TimeOfDayDawn        = "새벽"
	TimeOfDayUnspecified = "미정"
)

// LocationUnspecified marks scenes whose storyboard carries no location text.
const LocationUnspecified = "미정"

// Scene is a single storyboard unit as delivered by the main backend.
// The optimizer never mutates it.
type Scene struct {
	ID                   string   `json:"id"`
	SceneNumber          int      `json:"sceneNumber"`
	Title                string   `json:"title"`
	OnScreenDurationText string   `json:"onScreenDurationText"`
	Location             string   `json:"location"`
	Cast                 []string `json:"cast"`
	TimeOfDay            string   `json:"timeOfDay"`
	Equipment            []string `json:"equipment"`
	Crew                 []string `json:"crew"`
	Props                []string `json:"props"`
	Costumes             []string `json:"costumes"`
	SpecialRequirements  string   `json:"specialRequirements,omitempty"`
}

// SceneLocation is the location registry's answer for one scene.
type SceneLocation struct {
	LocationGroupID  string `json:"locationGroupId"`
	RealLocationID   string `json:"realLocationId"`
	GroupName        string `json:"groupName"`
	RealLocationName string `json:"realLocationName"`
}

// EnrichedScene is a Scene augmented with derived scheduling attributes.
type EnrichedScene struct {
	Scene

	OnScreenMinutes   float64 `json:"onScreenMinutes"`
	ShootingMinutes   int     `json:"shootingMinutes"`
	LocationGroupID   string  `json:"locationGroupId"`
	RealLocationID    string  `json:"realLocationId"`
	LocationGroupName string  `json:"locationGroupName,omitempty"`
	RealLocationName  string  `json:"realLocationName,omitempty"`
}

// SceneRef is the lightweight scene identity used in breakdown buckets.
type SceneRef struct {
	ID          string `json:"id"`
	SceneNumber int    `json:"sceneNumber"`
	Title       string `json:"title,omitempty"`
}

// Ref returns the scene's breakdown identity.
func (s Scene) Ref() SceneRef {
	return SceneRef{ID: s.ID, SceneNumber: s.SceneNumber, Title: s.Title}
}
