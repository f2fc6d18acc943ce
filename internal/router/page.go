package router

import "strings"

// Page is a logical page. The set is closed; every page has an entry in
// Fragment, String and Access.
type Page int

const (
	PageHome Page = iota
	PageRegister
	PageLogin
	PageVerifyEmail
	PageProfile
	PageAccounts
	PageDepartments
	PageEmployees
	PageRequests
)

// AllPages lists every page in declaration order.
var AllPages = []Page{
	PageHome,
	PageRegister,
	PageLogin,
	PageVerifyEmail,
	PageProfile,
	PageAccounts,
	PageDepartments,
	PageEmployees,
	PageRequests,
}

type Access int

const (
	AccessPublic Access = iota
	// AccessPrivate needs any signed-in account.
	AccessPrivate
	// AccessAdmin needs a signed-in admin.
	AccessAdmin
)

func (p Page) String() string {
	switch p {
	case PageHome:
		return "home"
	case PageRegister:
		return "register"
	case PageLogin:
		return "login"
	case PageVerifyEmail:
		return "verify-email"
	case PageProfile:
		return "profile"
	case PageAccounts:
		return "accounts"
	case PageDepartments:
		return "departments"
	case PageEmployees:
		return "employees"
	case PageRequests:
		return "requests"
	default:
		panic("router: unknown page")
	}
}

// Fragment is the location fragment that activates p.
func (p Page) Fragment() string {
	if p == PageHome {
		return "#/"
	}
	return "#/" + p.String()
}

func (p Page) Access() Access {
	switch p {
	case PageHome, PageRegister, PageLogin, PageVerifyEmail:
		return AccessPublic
	case PageProfile, PageRequests:
		return AccessPrivate
	case PageAccounts, PageDepartments, PageEmployees:
		return AccessAdmin
	default:
		panic("router: unknown page")
	}
}

// ParseFragment maps a location fragment to a page. Anything unrecognised,
// including the empty fragment, is the home page.
func ParseFragment(fragment string) Page {
	name := strings.TrimSpace(fragment)
	name = strings.TrimPrefix(name, "#")
	name = strings.TrimPrefix(name, "/")
	name = strings.TrimSuffix(name, "/")

	for _, p := range AllPages {
		if p != PageHome && p.String() == name {
			return p
		}
	}
	return PageHome
}
