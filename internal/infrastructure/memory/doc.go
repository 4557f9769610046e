// Package memory はインメモリのレコードストアと、それを使ったリポジトリ実装を提供する
//
// 構成は次の通り
//   - IDGenerator: アトミックに単調増加するID採番
//   - Store: ID をキーとするレコードの集合（排他制御なし）
//   - Shared: Store を RWMutex で包み、複数のリクエストから共有できるようにしたもの
//   - SnapshotFile: レコード集合を JSON ファイルへ保存・復元する
//
// 読み取り（Get / List）は共有ロック、書き込み（Create / Update / Delete）は排他ロックで実行される
package memory
