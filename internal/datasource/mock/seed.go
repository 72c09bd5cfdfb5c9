package mock

// Seed tables for the synthetic ITSM estate. Names mirror the managed
// environment the console fronts; metrics are randomized around these
// fixtures every cycle.

type serverSeed struct {
	id   string
	name string
}

var serverSeeds = []serverSeed{
	{"srv-001", "WEB-SV-01"},
	{"srv-002", "WEB-SV-02"},
	{"srv-003", "AP-SV-01"},
	{"srv-004", "DB-SV-01"},
	{"srv-005", "FILE-SV-01"},
	{"srv-006", "AD-SV-01"},
}

type serviceSeed struct {
	id   string
	name string
}

var serviceSeeds = []serviceSeed{
	{"svc-001", "メールサービス"},
	{"svc-002", "ファイル共有"},
	{"svc-003", "基幹業務システム"},
	{"svc-004", "Active Directory"},
	{"svc-005", "社内ポータル"},
	{"svc-006", "勤怠管理システム"},
}

var alertSeeds = []struct {
	typ     string
	message string
	source  string
}{
	{"critical", "DB-SV-01 のディスク使用率が閾値を超過しました", "DB-SV-01"},
	{"warning", "メールサービスの応答時間が劣化しています", "svc-001"},
	{"warning", "WEB-SV-02 のメモリ使用率が上昇傾向です", "WEB-SV-02"},
	{"info", "定期バックアップが完了しました", "FILE-SV-01"},
	{"info", "月次パッチ適用ジョブがスケジュールされました", "AP-SV-01"},
	{"critical", "Active Directory のレプリケーション遅延を検出しました", "AD-SV-01"},
}

var ticketTitles = []string{
	"メールが送信できない",
	"共有フォルダにアクセスできない",
	"基幹システムの画面表示が遅い",
	"パスワードリセット依頼",
	"プリンタドライバの再インストール依頼",
	"VPN接続が頻繁に切断される",
	"新入社員のアカウント発行依頼",
	"会議室予約システムのエラー",
	"ノートPCの動作が極端に遅い",
	"グループウェアの通知が届かない",
}

var ticketCategories = []string{
	"インフラ",
	"アプリケーション",
	"アカウント管理",
	"ネットワーク",
	"ハードウェア",
}

var assigneeNames = []string{
	"佐藤",
	"鈴木",
	"高橋",
	"田中",
	"渡辺",
	"伊藤",
}

var escalationReasons = []string{
	"一次対応で解決できず専門チームへ引き継ぎ",
	"SLA期限接近のため優先度を引き上げ",
	"ベンダー調査が必要と判断",
	"影響範囲が複数部門に拡大",
}

var supportTiers = []string{"L1サポート", "L2サポート", "L3サポート", "ベンダー"}
