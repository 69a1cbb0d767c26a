package repository

// Factory describes access to different domain repositories.
type Factory interface {
	OrderEvents() OrderEventRepository
	DispatchLog() DispatchLogRepository
}
