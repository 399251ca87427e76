package kvstore

const SessionKey = "session"

func MoodsKey(uid string) string         { return "moods_" + uid }
func ProKey(uid string) string           { return "isPro_" + uid }
func ThemeKey(uid string) string         { return "theme_" + uid }
func WelcomeKey(uid string) string       { return "hasSeenWelcome_" + uid }
func NotificationsKey(uid string) string { return "notifications_" + uid }
func SupportKey(uid string) string       { return "support_" + uid }
func DiscardedKey(uid string) string     { return "discarded_" + uid }

// AuthKey holds the offline sign-in material for an email address.
func AuthKey(email string) string { return "auth_" + email }
