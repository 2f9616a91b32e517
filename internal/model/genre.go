package model

// Genre is a simple tag attached to reservations (many-to-many).  Genres
// carry no allocation semantics; they exist so exhibitors can describe
// what they sell.
type Genre struct {
	ID   uint64 // genres.id
	Name string // genres.name
}
