// Package persistence stores the todo list in SQL. The same queries serve
// Postgres and SQLite; placeholders are rebound by the executor.
package persistence

func lockKey(scope, owner string) string {
	return "todos:" + scope + ":" + owner
}
