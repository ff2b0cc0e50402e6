// Package i18n translates the messages the API returns to users.
package i18n

import (
	"golang.org/x/text/language"
)

// Lang is a supported language code
type Lang string

const (
	RU Lang = "ru"
	EN Lang = "en"
)

// Message keys
const (
	DepositSuccess    = "deposit.form.success"
	WithdrawalSuccess = "withdraw.form.success"
	FormError         = "form.error"
	InvalidAmount     = "form.invalid_amount"
	BelowMinimum      = "withdraw.min_error"
	WalletRequired    = "withdraw.wallet_required"
	UnknownNetwork    = "deposit.unknown_network"
	InvalidRequest    = "form.invalid_request"
	AuthRequired      = "auth.required"
	PasswordShort     = "auth.password_short"
	InvalidEmail      = "auth.invalid_email"
	EmailTaken        = "auth.email_taken"
	InvalidLogin      = "auth.invalid_credentials"
	RegisterError     = "auth.register_error"
	SignedOut         = "auth.signed_out"
	AccessDenied      = "admin.access_denied"
	Approved          = "admin.approved"
	RejectedMsg       = "admin.rejected_msg"
	AdminError        = "admin.error"
	NotPending        = "admin.not_pending"
	NotFound          = "common.not_found"
	UnknownSymbol     = "trading.unknown_symbol"
)

var defaultTable = map[string]map[Lang]string{
	DepositSuccess:    {RU: "Заявка на депозит создана! Ожидайте подтверждения.", EN: "Deposit request created! Awaiting confirmation."},
	WithdrawalSuccess: {RU: "Заявка на вывод создана! Обработка до 24 часов.", EN: "Withdrawal request created! Processing takes up to 24 hours."},
	FormError:         {RU: "Ошибка отправки. Попробуйте позже.", EN: "Sending error. Try again later."},
	InvalidAmount:     {RU: "Введите корректную сумму", EN: "Enter a valid amount"},
	BelowMinimum:      {RU: "Минимальный вывод: 50 USDT", EN: "Minimum withdrawal: 50 USDT"},
	WalletRequired:    {RU: "Укажите адрес кошелька", EN: "Enter your wallet address"},
	UnknownNetwork:    {RU: "Сеть не поддерживается", EN: "Network is not supported"},
	InvalidRequest:    {RU: "Некорректный запрос", EN: "Invalid request"},
	AuthRequired:      {RU: "Войдите в свой аккаунт", EN: "Please log in"},
	PasswordShort:     {RU: "Пароль должен быть не менее 6 символов", EN: "Password must be at least 6 characters"},
	InvalidEmail:      {RU: "Некорректный email", EN: "Invalid email"},
	EmailTaken:        {RU: "Этот email уже зарегистрирован", EN: "This email is already registered"},
	InvalidLogin:      {RU: "Неверный email или пароль", EN: "Invalid email or password"},
	RegisterError:     {RU: "Ошибка регистрации", EN: "Registration error"},
	SignedOut:         {RU: "Вы вышли из аккаунта", EN: "You have signed out"},
	AccessDenied:      {RU: "Доступ запрещён", EN: "Access denied"},
	Approved:          {RU: "Транзакция одобрена", EN: "Transaction approved"},
	RejectedMsg:       {RU: "Транзакция отклонена", EN: "Transaction rejected"},
	AdminError:        {RU: "Ошибка обновления", EN: "Update error"},
	NotPending:        {RU: "Транзакция уже обработана", EN: "Transaction was already reviewed"},
	NotFound:          {RU: "Не найдено", EN: "Not found"},
	UnknownSymbol:     {RU: "Неизвестный инструмент", EN: "Unknown instrument"},
}

// Localizer looks up translated messages. It is built once at start-up and passed to handlers.
type Localizer struct {
	fallback Lang
	table    map[string]map[Lang]string
	matcher  language.Matcher
	tags     []Lang
}

// New creates a Localizer over the built-in table. Unknown fallback codes become RU.
func New(fallback string) *Localizer {
	fb := Lang(fallback)
	if fb != RU && fb != EN {
		fb = RU
	}
	tags := []Lang{fb}
	for _, l := range []Lang{RU, EN} {
		if l != fb {
			tags = append(tags, l)
		}
	}
	langTags := make([]language.Tag, len(tags))
	for i, l := range tags {
		langTags[i] = language.Make(string(l))
	}
	return &Localizer{
		fallback: fb,
		table:    defaultTable,
		matcher:  language.NewMatcher(langTags),
		tags:     tags,
	}
}

// T returns the message for key in lang, falling back to the default language and then to the key itself
func (l *Localizer) T(lang Lang, key string) string {
	entry, ok := l.table[key]
	if !ok {
		return key
	}
	if msg, ok := entry[lang]; ok {
		return msg
	}
	if msg, ok := entry[l.fallback]; ok {
		return msg
	}
	return key
}

// Resolve picks a language from an explicit code (e.g. ?lang=en) or an Accept-Language header
func (l *Localizer) Resolve(explicit, acceptLanguage string) Lang {
	if lang := Lang(explicit); lang == RU || lang == EN {
		return lang
	}
	if acceptLanguage == "" {
		return l.fallback
	}
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return l.fallback
	}
	_, idx, conf := l.matcher.Match(tags...)
	if conf == language.No {
		return l.fallback
	}
	return l.tags[idx]
}

// Fallback returns the default language
func (l *Localizer) Fallback() Lang {
	return l.fallback
}
