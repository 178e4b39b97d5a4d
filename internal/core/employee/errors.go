package employee

import "errors"

var (
	// ErrInvalidID は社員 ID が不正な場合に返却されます。
	ErrInvalidID = errors.New("employee: invalid id")
	// ErrInvalidArgument は検索条件などの引数が不正な場合に返却されます。
	ErrInvalidArgument = errors.New("employee: invalid argument")
	// ErrInvalidEmployee は社員情報が入力規則を満たさない場合に返却されます。
	ErrInvalidEmployee = errors.New("employee: invalid employee")
	// ErrEmployeeNotFound は対象の社員が存在しない場合に返却されます。
	ErrEmployeeNotFound = errors.New("employee: not found")
	// ErrUpdateConflict は更新対象の行が存在しなかった場合に返却されます。
	ErrUpdateConflict = errors.New("employee: update affected no rows")
	// ErrStoreUnavailable は外部ストアに到達できなかった場合に返却されます。
	ErrStoreUnavailable = errors.New("employee: store unavailable")
	// ErrUsernameDuplicated はユーザー名が既に使われている場合に返却されます。
	ErrUsernameDuplicated = errors.New("employee: username already exists")
)
