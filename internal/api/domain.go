package api

import (
	"github.com/campusdesk/campusdesk/internal/attachments"
	"github.com/campusdesk/campusdesk/internal/classifier"
	"github.com/campusdesk/campusdesk/internal/complaints"
	"github.com/campusdesk/campusdesk/internal/identity"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Identity    identity.System
	Complaints  complaints.System
	Attachments attachments.System
	Classifier  classifier.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) *Domain {
	identitySystem := identity.New(
		runtime.Database.Connection(),
		runtime.Logger,
	)

	classifierClient := classifier.NewClient(
		runtime.Config.Classifier,
		runtime.Logger,
	)

	complaintsSystem := complaints.New(
		runtime.Database.Connection(),
		classifierClient,
		runtime.Events,
		runtime.Pagination,
		runtime.Logger,
	)

	attachmentsSystem := attachments.New(
		runtime.Database.Connection(),
		runtime.Storage,
		complaintsSystem,
		runtime.Config.Attachments,
		runtime.Logger,
	)

	return &Domain{
		Identity:    identitySystem,
		Complaints:  complaintsSystem,
		Attachments: attachmentsSystem,
		Classifier:  classifierClient,
	}
}
