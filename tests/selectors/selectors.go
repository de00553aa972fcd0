package sel

const (
	Nav = "nav"

	SubscribeForm      = "#subscribe-form"
	SubscribeFirstName = SubscribeForm + ` input[name="first_name"]`
	SubscribeLastName  = SubscribeForm + ` input[name="last_name"]`
	SubscribeEmail     = SubscribeForm + ` input[name="email"]`
	SubscribeSubmit    = SubscribeForm + ` button[type="submit"]`
	SubscribeError     = "#subscribe-error"
	SubscribeSuccess   = "#subscribe-success"

	UpcomingEvents = "#upcoming-events"
	PastEvents     = "#past-events"

	SignInForm     = "#login-form"
	SignInUsername = SignInForm + ` input[name="username"]`
	SignInPassword = SignInForm + ` input[name="password"]`
	SignInSubmit   = SignInForm + ` button[type="submit"]`

	ProfileUsername = "#profile-username"
	ProfileRole     = "#profile-role"

	CheckNewButton = `#check-new button`
	EmailList      = ".email-list"
	EmailDetail    = "#email-detail"
	ApproveButton  = "#approve"
)
