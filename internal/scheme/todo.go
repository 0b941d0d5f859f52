package scheme

// Entry is one row of the todo table.
type Entry struct {
	Id   uint32 `db:"id"`
	Text string `db:"text"`
}

// AddParams is the form body of POST /add.
type AddParams struct {
	Text string
}

// DeleteParams is the form body of POST /delete.
type DeleteParams struct {
	Id uint32
}
