/*
Package corpus stores raw corpus text in a SQLite database so that a model can
be rebuilt from previously ingested documents without keeping the original
files around. Only the lines are stored; models are always rebuilt in memory.

The package works with any database/sql SQLite driver. Callers open the
database and call SetupSchema once before using a Store.
*/
package corpus
