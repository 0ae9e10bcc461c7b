// Package undolog persists completed relocations and replays them in
// reverse.
//
// The log is a UTF-8 text file with one "<original> --> <relocated>" line
// per relocated folder. Each append is synced before it returns so a crash
// after any single move still leaves a usable log. Restore consumes the
// log: it is deleted after a full pass, and records that could not be
// restored are kept in a residual file next to it.
package undolog
