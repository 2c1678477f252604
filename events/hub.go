package events

import (
	"encoding/json"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/yeremiapane/dining-area/utils"
)

// Event types
const (
	EventTableCreate     = "table_create"
	EventTableUpdate     = "table_update"
	EventTableDelete     = "table_delete"
	EventTableCombined   = "table_combined"
	EventComboSplit      = "combo_split"
	EventAreaUpdate      = "dining_area_update"
	EventAreaDelete      = "dining_area_delete"
	EventAreaDuplicated  = "dining_area_duplicated"
	EventFloorPlanUpdate = "floor_plan_update"
)

type Message struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// Hub menampung semua subscriber (CLI logger, AMQP forwarder, test) dan
// meneruskan setiap event ke channel mereka
type Hub struct {
	clients map[chan Message]string // channel -> nama subscriber
	mutex   sync.Mutex
}

var hub = Hub{
	clients: make(map[chan Message]string),
}

// Subscribe -> mendaftarkan subscriber baru dengan buffer channel
func Subscribe(name string, buffer int) chan Message {
	ch := make(chan Message, buffer)

	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	hub.clients[ch] = name
	return ch
}

// Unsubscribe -> melepaskan subscriber dan menutup channel-nya
func Unsubscribe(ch chan Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	if _, ok := hub.clients[ch]; !ok {
		return
	}
	delete(hub.clients, ch)
	close(ch)
}

// BroadcastTableCreate -> notifikasi meja baru dibuat
func BroadcastTableCreate(table interface{}) {
	broadcast(Message{
		Event: EventTableCreate,
		Data:  table,
	})
}

// BroadcastTableUpdate -> notifikasi meja diubah
func BroadcastTableUpdate(table interface{}) {
	broadcast(Message{
		Event: EventTableUpdate,
		Data:  table,
	})
}

// BroadcastTableDelete -> notifikasi meja dihapus
func BroadcastTableDelete(table interface{}) {
	broadcast(Message{
		Event: EventTableDelete,
		Data:  table,
	})
}

// BroadcastTableCombined -> beberapa meja digabung menjadi combo
func BroadcastTableCombined(comboID uint, tableIDs []uint) {
	broadcast(Message{
		Event: EventTableCombined,
		Data: map[string]interface{}{
			"combo_id":  comboID,
			"table_ids": tableIDs,
		},
	})
}

// BroadcastComboSplit -> combo dibubarkan
func BroadcastComboSplit(comboID uint, tableIDs []uint) {
	broadcast(Message{
		Event: EventComboSplit,
		Data: map[string]interface{}{
			"combo_id":  comboID,
			"table_ids": tableIDs,
		},
	})
}

// BroadcastMessage -> broadcast pesan umum
func BroadcastMessage(msg Message) {
	broadcast(msg)
}

// SubscriberCount dipakai untuk debug dan test
func SubscriberCount() int {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()
	return len(hub.clients)
}

// broadcast -> fungsi internal untuk mengirim pesan. Subscriber yang
// buffer-nya penuh dilewati supaya penulisan ke database tidak ikut tertahan.
func broadcast(msg Message) {
	hub.mutex.Lock()
	defer hub.mutex.Unlock()

	if utils.InfoLogger.IsLevelEnabled(logrus.DebugLevel) {
		if data, err := json.Marshal(msg); err == nil {
			utils.InfoLogger.Debugf("Broadcasting message: %s to %d subscribers", string(data), len(hub.clients))
		}
	}

	for ch, name := range hub.clients {
		select {
		case ch <- msg:
		default:
			utils.ErrorLogger.WithFields(logrus.Fields{
				"subscriber": name,
				"event":      msg.Event,
			}).Error("Subscriber buffer full, message dropped")
		}
	}
}
