package resource

// Human is the default payload type served by ukv
type Human struct {
	Name string `json:"name"`
}
