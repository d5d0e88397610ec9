package domain

import "io"

// ContentReader — ленивое чтение шифртекста айтема ограниченными окнами.
// Поток конечен, не перезапускается; границы окон — транспортная деталь,
// с блоками шифра они не связаны.
type ContentReader interface {
	io.ReadCloser
	// Size — полный размер шифртекста в байтах (для Content-Length).
	Size() int64
}
