package service

import (
	"github.com/biotaxa/taxoclient/internal/logger"
	"github.com/biotaxa/taxoclient/internal/netstatus"
	"github.com/biotaxa/taxoclient/internal/objstore"
	"github.com/biotaxa/taxoclient/internal/remote"
	"github.com/biotaxa/taxoclient/internal/store"
)

// Services aggregates the business layer for wiring into the client app.
type Services struct {
	Queue    OperationQueue
	Uploader Uploader
	Sync     SyncService
	Auth     AuthService
	SyncJob  SyncJob
}

// NewServices wires the business layer together. remoteAPI must satisfy both
// the CRUD and auth contracts, which the HTTP adapter does.
func NewServices(
	storages *store.Storages,
	remoteAPI remote.Client,
	authAPI remote.AuthAPI,
	objects objstore.Store,
	observer *netstatus.Observer,
	log *logger.Logger,
) *Services {
	notifier := NewLogNotifier(log)

	queue := NewOperationQueue(storages.Operations, log)
	uploaderSvc := NewUploader(objects, storages.Uploads, observer, notifier, log)
	syncSvc := NewSyncService(remoteAPI, storages.Mirror, queue, observer, notifier, log)
	authSvc := NewAuthService(authAPI, remoteAPI, storages.AuthCache, observer, log)

	return &Services{
		Queue:    queue,
		Uploader: uploaderSvc,
		Sync:     syncSvc,
		Auth:     authSvc,
		SyncJob:  NewSyncJob(syncSvc, uploaderSvc, observer, log),
	}
}
