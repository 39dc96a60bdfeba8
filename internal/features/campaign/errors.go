package campaign

import "errors"

// NameTakenMessage is shown to users whenever a generated name collides.
const NameTakenMessage = "A campaign with this name already exists"

var (
	ErrCampaignNotFound   = errors.New("campaign not found")
	ErrNameTaken          = errors.New("campaign name already exists")
	ErrCreationInProgress = errors.New("campaign with this name is already being created")
)
