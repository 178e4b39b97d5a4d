package structure

import "errors"

var (
	// ErrLoad は参照データを読み込めなかった場合に返却されます。
	ErrLoad = errors.New("structure: load reference data")
	// ErrSourceRequired は Source が指定されていない場合に返却されます。
	ErrSourceRequired = errors.New("structure: source is required")
)
