package studio

// Outcome は Submit 1 回の終了状態です。
type Outcome int

const (
	// OutcomeSkipped はプロンプトが空、または処理中のため何もしなかったことを表します。
	OutcomeSkipped Outcome = iota
	// OutcomeInvalid は edit モードで画像が未アップロードだったことを表します。
	OutcomeInvalid
	OutcomeSucceeded
	// OutcomeEmpty はサービスが成功したものの画像を返さなかったことを表します。
	OutcomeEmpty
	OutcomeFailed
	// OutcomeReadFailed はアップロードファイルの読み込みに失敗したことを表します。
	OutcomeReadFailed
	// OutcomeDiscarded は応答到着前にモード変更等があり、結果を破棄したことを表します。
	OutcomeDiscarded
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSkipped:
		return "skipped"
	case OutcomeInvalid:
		return "invalid"
	case OutcomeSucceeded:
		return "succeeded"
	case OutcomeEmpty:
		return "empty"
	case OutcomeFailed:
		return "failed"
	case OutcomeReadFailed:
		return "read_failed"
	case OutcomeDiscarded:
		return "discarded"
	default:
		return "unknown"
	}
}
