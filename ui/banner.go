package ui

// Kind is the severity of a banner message
type Kind string

const (
	KindError   Kind = "error"
	KindInfo    Kind = "info"
	KindSuccess Kind = "success"
)

const bannerClass = "error-header"

// Presenter is the page's single message banner. It starts hidden; Show replaces any
// message already on display and Hide keeps the message but stops showing it.
type Presenter struct {
	visible bool
	message string
	kind    Kind
}

func NewPresenter() *Presenter {
	return &Presenter{kind: KindError}
}

func (p *Presenter) Show(message string, kind Kind) {
	switch kind {
	case KindInfo, KindSuccess:
	default:
		kind = KindError
	}
	p.message = message
	p.kind = kind
	p.visible = true
}

func (p *Presenter) ShowError(message string) {
	p.Show(message, KindError)
}

func (p *Presenter) ShowInfo(message string) {
	p.Show(message, KindInfo)
}

func (p *Presenter) ShowSuccess(message string) {
	p.Show(message, KindSuccess)
}

func (p *Presenter) Hide() {
	p.visible = false
}

func (p *Presenter) Visible() bool {
	return p.visible
}

func (p *Presenter) Message() string {
	return p.message
}

func (p *Presenter) Kind() Kind {
	return p.kind
}

// Class is the CSS class list of the banner element: the base class plus one kind class.
func (p *Presenter) Class() string {
	return bannerClass + " " + string(p.kind)
}
