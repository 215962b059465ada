package repository

import "errors"

var (
	ErrNotFound = errors.New("not found")
	// 一意制約違反（ユーザー名・メールの重複など）
	ErrDuplicate = errors.New("duplicate")
	// 読んだ値が書き込み時点で変わっていた
	ErrConflict = errors.New("conflict")
)
