package domain

// KakaoProfile es el perfil devuelto por /v2/user/me, ya normalizado.
type KakaoProfile struct {
	ID              string
	Email           string
	Nickname        string
	ProfileImageURL string
	// Raw conserva el payload completo para devolverlo como userInfo.
	Raw map[string]any
}
