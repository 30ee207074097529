// Package idgen produces the unique identifiers assigned to tasks.
package idgen
